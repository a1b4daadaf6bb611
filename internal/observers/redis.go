package observers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/domain"
)

const publishTimeout = 2 * time.Second

// RedisPublisher republishes score events to Redis pub/sub so
// out-of-process consumers (push relays, other services) can follow a
// match without holding a WebSocket to this instance. Events go to
// "score:events:<matchID>".
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher builds the Redis sink.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Name() string { return "redis-publisher" }

// Channel returns the pub/sub channel for a match.
func Channel(matchID string) string {
	return "score:events:" + matchID
}

func (p *RedisPublisher) publish(ev broadcast.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return p.client.Publish(ctx, Channel(ev.MatchID), payload).Err()
}

func (p *RedisPublisher) OnMatchStart(m *domain.Match) error {
	return p.publish(broadcast.NewEvent(broadcast.EventMatchStart, m, nil, 0))
}

func (p *RedisPublisher) OnBallBowled(m *domain.Match, ball domain.Ball) error {
	return p.publish(broadcast.NewEvent(broadcast.EventBallBowled, m, &ball, ball.InningsNumber))
}

func (p *RedisPublisher) OnWicket(m *domain.Match, ball domain.Ball) error {
	return p.publish(broadcast.NewEvent(broadcast.EventWicket, m, &ball, ball.InningsNumber))
}

func (p *RedisPublisher) OnInningsEnd(m *domain.Match, inningsNumber int) error {
	return p.publish(broadcast.NewEvent(broadcast.EventInningsEnd, m, nil, inningsNumber))
}

func (p *RedisPublisher) OnMatchEnd(m *domain.Match) error {
	return p.publish(broadcast.NewEvent(broadcast.EventMatchEnd, m, nil, 0))
}

func (p *RedisPublisher) OnScoreUpdate(m *domain.Match, score string) error {
	return p.publish(broadcast.NewEvent(broadcast.EventScoreUpdate, m, nil, 0))
}

var _ broadcast.Observer = (*RedisPublisher)(nil)
