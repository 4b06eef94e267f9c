// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/event"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

func sampleFromRequest(req attentionRequest) model.FaceSample {
	return model.FaceSample{
		At:        time.Now(),
		Attention: req.Attention,
		Smiling:   req.Smiling,
		Faces:     req.Faces,
	}
}

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Join(ErrBadRequest, err))
		return
	}

	id, q, err := h.deps.StartSession(r.Context(), req.Role, req.Skills)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startResponse{SessionID: id, Question: q})
}

// HandleSession dispatches /sessions/{id}/{action} requests.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, action := parts[0], parts[1]

	switch action {
	case "join":
		h.handleJoin(w, r, id)
	case "answers":
		h.handleAnswer(w, r, id)
	case "attention":
		h.handleAttention(w, r, id)
	case "end":
		h.handleEnd(w, r, id)
	case "report":
		h.handleReport(w, r, id)
	case "events":
		h.handleEvents(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// handleJoin handles POST /sessions/{id}/join requests.
func (h *SessionsHandler) handleJoin(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	q, err := h.deps.JoinSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{SessionID: id, Question: q})
}

// handleAnswer handles POST /sessions/{id}/answers requests. Stale
// submissions are acknowledged like fresh ones; idempotence happens in the
// orchestrator.
func (h *SessionsHandler) handleAnswer(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Join(ErrBadRequest, err))
		return
	}
	if req.QuestionIndex < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.SubmitAnswer(r.Context(), id, req.QuestionIndex, req.Transcript); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// handleAttention handles POST /sessions/{id}/attention requests.
func (h *SessionsHandler) handleAttention(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req attentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Join(ErrBadRequest, err))
		return
	}
	sample := sampleFromRequest(req)
	if err := h.deps.ReportAttention(r.Context(), id, sample); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// handleEnd handles POST /sessions/{id}/end requests.
func (h *SessionsHandler) handleEnd(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.EndSession(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ended"})
}

// handleReport handles GET /sessions/{id}/report requests.
func (h *SessionsHandler) handleReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	insights, err := h.deps.Report(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleEvents handles GET /sessions/{id}/events requests: the polling
// fallback for clients without a live channel. Draining is destructive;
// each event is delivered to at most one poll.
func (h *SessionsHandler) handleEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	events, err := h.deps.DrainEvents(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
