// Package http exposes the scoring engine's command and query surface
// over REST. Handlers resolve the match, take its serialization guard
// via the store, and delegate to the score service; they hold no
// scoring logic of their own.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/score"
	"cricket-score-service/internal/store"
)

// Handler carries the dependencies of the HTTP surface.
type Handler struct {
	store   *store.MemoryStore
	service *score.Service
	logger  *slog.Logger
}

// NewHandler constructs the handler set.
func NewHandler(st *store.MemoryStore, svc *score.Service, logger *slog.Logger) *Handler {
	return &Handler{store: st, service: svc, logger: logger}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, loggerFromContext(r, h.logger))
}

// Ready reports readiness to accept scoring commands.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, loggerFromContext(r, h.logger))
}

type createTeamRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"playerIds"`
}

// CreateTeam registers a team in the identity store.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required", logger)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	team := domain.Team{ID: req.ID, Name: req.Name, PlayerIDs: req.PlayerIDs}
	h.store.PutTeam(team)
	writeJSON(w, http.StatusCreated, team, logger)
}

type createPlayerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// CreatePlayer registers a player in the identity store.
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required", logger)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	player := domain.Player{ID: req.ID, Name: req.Name, Role: domain.PlayerRole(req.Role)}
	h.store.PutPlayer(player)
	writeJSON(w, http.StatusCreated, player, logger)
}

type createMatchRequest struct {
	Team1ID         string `json:"team1Id"`
	Team2ID         string `json:"team2Id"`
	Format          string `json:"format"`
	OversPerInnings int    `json:"oversPerInnings"`
}

// CreateMatch registers a match in the SCHEDULED state.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}
	if req.Team1ID == "" || req.Team2ID == "" {
		writeError(w, r, http.StatusBadRequest, "team1Id and team2Id are required", logger)
		return
	}
	format, ok := resolveFormat(req.Format, req.OversPerInnings)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown format", logger)
		return
	}

	m := domain.NewMatch(req.Team1ID, req.Team2ID, format)
	h.store.PutMatch(m)
	writeJSON(w, http.StatusCreated, m, logger)
}

func resolveFormat(name string, overs int) (domain.Format, bool) {
	switch strings.ToUpper(name) {
	case "", domain.FormatT20.Name:
		f := domain.FormatT20
		if overs > 0 {
			f.OversPerInnings = overs
		}
		return f, true
	case domain.FormatODI.Name:
		f := domain.FormatODI
		if overs > 0 {
			f.OversPerInnings = overs
		}
		return f, true
	case domain.FormatTest.Name:
		return domain.FormatTest, true
	}
	return domain.Format{}, false
}

// ListMatches returns all registered matches.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListMatches(), loggerFromContext(r, h.logger))
}

// GetMatch returns a single match.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	m, ok := h.store.GetMatch(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", logger)
		return
	}
	writeJSON(w, http.StatusOK, m, logger)
}

// StartMatch moves a match to LIVE.
func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(m *domain.Match) error {
		return h.service.StartMatch(m)
	})
}

type startInningsRequest struct {
	BattingTeamID string `json:"battingTeamId"`
	BowlingTeamID string `json:"bowlingTeamId"`
	StrikerID     string `json:"strikerId"`
	NonStrikerID  string `json:"nonStrikerId"`
	BowlerID      string `json:"bowlerId"`
	OversLimit    int    `json:"oversLimit"`
}

// StartInnings opens the next innings.
func (h *Handler) StartInnings(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req startInningsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}
	h.command(w, r, func(m *domain.Match) error {
		_, err := h.service.StartInnings(m, score.StartInningsParams{
			BattingTeamID: req.BattingTeamID,
			BowlingTeamID: req.BowlingTeamID,
			StrikerID:     req.StrikerID,
			NonStrikerID:  req.NonStrikerID,
			BowlerID:      req.BowlerID,
			OversLimit:    req.OversLimit,
		})
		return err
	})
}

type recordBallRequest struct {
	BatsmanID   string `json:"batsmanId"`
	BowlerID    string `json:"bowlerId"`
	RunsOffBat  int    `json:"runsOffBat"`
	Extra       string `json:"extra"`
	ExtraRuns   int    `json:"extraRuns"`
	Wicket      bool   `json:"wicket"`
	Dismissal   string `json:"dismissal"`
	DismissedID string `json:"dismissedId"`
}

// RecordBall applies one delivery to the active innings.
func (h *Handler) RecordBall(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req recordBallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}

	extra := domain.ExtraNone
	if req.Extra != "" {
		extra = domain.ExtraKind(strings.ToUpper(req.Extra))
		switch extra {
		case domain.ExtraNone, domain.ExtraWide, domain.ExtraNoBall, domain.ExtraBye, domain.ExtraLegBye, domain.ExtraDeadBall:
		default:
			writeError(w, r, http.StatusBadRequest, "unknown extra kind", logger)
			return
		}
	}

	ball := domain.Ball{
		BatsmanID:   req.BatsmanID,
		BowlerID:    req.BowlerID,
		RunsOffBat:  req.RunsOffBat,
		Extra:       extra,
		ExtraRuns:   req.ExtraRuns,
		Wicket:      req.Wicket,
		Dismissal:   domain.DismissalKind(strings.ToUpper(req.Dismissal)),
		DismissedID: req.DismissedID,
	}
	h.command(w, r, func(m *domain.Match) error {
		return h.service.RecordBall(m, ball)
	})
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

// SendNewBatsman brings the replacement batsman in.
func (h *Handler) SendNewBatsman(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, r, http.StatusBadRequest, "playerId is required", logger)
		return
	}
	h.command(w, r, func(m *domain.Match) error {
		return h.service.SendNewBatsman(m, req.PlayerID)
	})
}

// ChangeBowler sets the bowler for the next delivery.
func (h *Handler) ChangeBowler(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, r, http.StatusBadRequest, "playerId is required", logger)
		return
	}
	h.command(w, r, func(m *domain.Match) error {
		return h.service.ChangeBowler(m, req.PlayerID)
	})
}

// EndInnings finalizes the current innings.
func (h *Handler) EndInnings(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(m *domain.Match) error {
		return h.service.EndInnings(m)
	})
}

// DeclareInnings closes the batting side's innings voluntarily.
func (h *Handler) DeclareInnings(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(m *domain.Match) error {
		return h.service.DeclareInnings(m)
	})
}

// LiveScore returns the current scoreline.
func (h *Handler) LiveScore(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	m, ok := h.store.GetMatch(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"matchId": m.ID,
		"score":   h.service.LiveScore(m),
	}, logger)
}

type analysisResponse struct {
	MatchID         string   `json:"matchId"`
	Strategy        string   `json:"strategy"`
	Target          int      `json:"target,omitempty"`
	RequiredRunRate *float64 `json:"requiredRunRate,omitempty"`
	Unreachable     bool     `json:"unreachable,omitempty"`
	ProjectedScore  int      `json:"projectedScore"`
	WinProbability  float64  `json:"winProbability"`
}

// Analysis returns the strategy's derived metrics.
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	m, ok := h.store.GetMatch(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", logger)
		return
	}

	resp := analysisResponse{
		MatchID:        m.ID,
		Strategy:       h.service.Strategy().Name(),
		ProjectedScore: h.service.ProjectedScore(m),
		WinProbability: h.service.WinProbability(m),
	}
	if in := m.CurrentInnings(); in != nil {
		resp.Target = in.Target
	}
	rrr := h.service.RequiredRunRate(m)
	if math.IsInf(rrr, 1) {
		// JSON has no infinity; an unreachable chase is flagged instead.
		resp.Unreachable = true
	} else {
		resp.RequiredRunRate = &rrr
	}
	writeJSON(w, http.StatusOK, resp, logger)
}

// Commentary returns the derived commentary, latest first.
func (h *Handler) Commentary(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	m, ok := h.store.GetMatch(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", logger)
		return
	}
	writeJSON(w, http.StatusOK, m.Commentary, logger)
}

// command runs a scoring command under the match's serialization guard
// and maps domain errors to HTTP statuses.
func (h *Handler) command(w http.ResponseWriter, r *http.Request, fn func(*domain.Match) error) {
	logger := loggerFromContext(r, h.logger)
	id := mux.Vars(r)["id"]

	var result *domain.Match
	err := h.store.WithMatch(id, func(m *domain.Match) error {
		if err := fn(m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		h.writeCommandError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, result, logger)
}

func (h *Handler) writeCommandError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, store.ErrMatchNotFound):
		writeError(w, r, http.StatusNotFound, "match not found", logger)
	case errors.Is(err, domain.ErrMatchNotLive), errors.Is(err, domain.ErrNoActiveInnings):
		writeError(w, r, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, domain.ErrInvariant):
		writeError(w, r, http.StatusInternalServerError, err.Error(), logger)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}
