package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter registers the REST routes and the WebSocket upgrade
// endpoint (when a hub is wired) behind permissive CORS.
func NewRouter(h *Handler, ws nethttp.Handler) nethttp.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(nethttp.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(nethttp.MethodGet)

	r.HandleFunc("/teams", h.CreateTeam).Methods(nethttp.MethodPost)
	r.HandleFunc("/players", h.CreatePlayer).Methods(nethttp.MethodPost)

	r.HandleFunc("/matches", h.CreateMatch).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches", h.ListMatches).Methods(nethttp.MethodGet)
	r.HandleFunc("/matches/{id}", h.GetMatch).Methods(nethttp.MethodGet)
	r.HandleFunc("/matches/{id}/start", h.StartMatch).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/innings", h.StartInnings).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/innings/end", h.EndInnings).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/innings/declare", h.DeclareInnings).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/balls", h.RecordBall).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/batsman", h.SendNewBatsman).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/bowler", h.ChangeBowler).Methods(nethttp.MethodPost)
	r.HandleFunc("/matches/{id}/score", h.LiveScore).Methods(nethttp.MethodGet)
	r.HandleFunc("/matches/{id}/analysis", h.Analysis).Methods(nethttp.MethodGet)
	r.HandleFunc("/matches/{id}/commentary", h.Commentary).Methods(nethttp.MethodGet)

	if ws != nil {
		r.Handle("/ws", ws)
	}

	return cors.AllowAll().Handler(r)
}
