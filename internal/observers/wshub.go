package observers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Buffer size for outbound messages per client.
	sendBufferSize = 256
)

// WSHub pushes score events to connected WebSocket clients. It is a
// broadcast.Observer on one side and an http.Handler (the /ws upgrade
// endpoint) on the other. Slow clients have messages dropped rather
// than stalling the hub.
type WSHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewWSHub builds the WebSocket sink.
func NewWSHub(logger *slog.Logger) *WSHub {
	return &WSHub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHub) Name() string { return "websocket-hub" }

// ServeHTTP upgrades the connection and starts the client pumps.
func (h *WSHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(h.logger, "websocket upgrade failed", err)
		return
	}

	c := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info(h.logger, "websocket client connected",
		slog.String("client_id", c.id), slog.Int("total", total))

	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount reports the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *WSHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	return nil
}

func (h *WSHub) drop(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process control frames and to notice disconnects.
func (h *WSHub) readPump(c *wsClient) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHub) publish(ev broadcast.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			// Client buffer full; drop the message rather than block.
			logging.Warn(h.logger, "websocket client slow, dropping message",
				slog.String("client_id", c.id))
		}
	}
	return nil
}

func (h *WSHub) OnMatchStart(m *domain.Match) error {
	return h.publish(broadcast.NewEvent(broadcast.EventMatchStart, m, nil, 0))
}

func (h *WSHub) OnBallBowled(m *domain.Match, ball domain.Ball) error {
	return h.publish(broadcast.NewEvent(broadcast.EventBallBowled, m, &ball, ball.InningsNumber))
}

func (h *WSHub) OnWicket(m *domain.Match, ball domain.Ball) error {
	return h.publish(broadcast.NewEvent(broadcast.EventWicket, m, &ball, ball.InningsNumber))
}

func (h *WSHub) OnInningsEnd(m *domain.Match, inningsNumber int) error {
	return h.publish(broadcast.NewEvent(broadcast.EventInningsEnd, m, nil, inningsNumber))
}

func (h *WSHub) OnMatchEnd(m *domain.Match) error {
	return h.publish(broadcast.NewEvent(broadcast.EventMatchEnd, m, nil, 0))
}

func (h *WSHub) OnScoreUpdate(m *domain.Match, score string) error {
	return h.publish(broadcast.NewEvent(broadcast.EventScoreUpdate, m, nil, 0))
}

var _ broadcast.Observer = (*WSHub)(nil)
