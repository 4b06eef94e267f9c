// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/MalekSoula7/AI-Career-Studio/internal/app"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/event"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the orchestrator implementation.
type Dependencies interface {
	StartSession(ctx context.Context, role string, skills []string) (string, model.Question, error)
	JoinSession(ctx context.Context, id string) (model.Question, error)
	SubmitAnswer(ctx context.Context, id string, questionIndex int, transcript string) error
	ReportAttention(ctx context.Context, id string, sample model.FaceSample) error
	EndSession(ctx context.Context, id string) error
	Report(ctx context.Context, id string) (model.FinalInsights, error)
	DrainEvents(ctx context.Context, id string) ([]event.Event, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sessionsHandler: NewSessionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSession, "session"))
}

// startRequest mirrors the schema for POST /sessions.
type startRequest struct {
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

type startResponse struct {
	SessionID string         `json:"session_id"`
	Question  model.Question `json:"question"`
}

// answerRequest mirrors the schema for POST /sessions/{id}/answers.
type answerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Transcript    string `json:"transcript"`
}

// attentionRequest mirrors the schema for POST /sessions/{id}/attention.
type attentionRequest struct {
	Attention float64 `json:"attention"`
	Smiling   bool    `json:"smiling"`
	Faces     int     `json:"faces"`
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates orchestrator sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "unknown_session", err)
	case errors.Is(err, service.ErrSessionComplete):
		writeError(w, http.StatusConflict, "session_complete", err)
	case errors.Is(err, service.ErrReportNotReady):
		writeError(w, http.StatusConflict, "report_not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
