// Package ws provides the WebSocket live channel: outbound session events
// pushed as they happen, inbound candidate commands on the same socket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/event"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Dependencies required by the live channel.
type Dependencies interface {
	JoinSession(ctx context.Context, id string) (model.Question, error)
	SubmitAnswer(ctx context.Context, id string, questionIndex int, transcript string) error
	ReportAttention(ctx context.Context, id string, sample model.FaceSample) error
	EndSession(ctx context.Context, id string) error
	Subscribe(ctx context.Context, id string) (<-chan event.Event, error)
}

// command is the inbound message envelope. The type field selects which of
// the optional fields matter.
type command struct {
	Type          string  `json:"type"`
	QuestionIndex int     `json:"question_index"`
	Transcript    string  `json:"transcript"`
	Attention     float64 `json:"attention"`
	Smiling       bool    `json:"smiling"`
	Faces         int     `json:"faces"`
}

// Handler upgrades HTTP requests to the live channel.
type Handler struct {
	deps     Dependencies
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewHandler creates a live channel handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		deps: deps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from another origin in dev.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.Get().Named("ws"),
	}
}

// HandleSession handles GET /ws?session_id={id} requests. The connection
// joins the session, replays the current question through the event
// stream, then pumps until either side closes.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	events, err := h.deps.Subscribe(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := h.deps.JoinSession(ctx, id); err != nil {
		// A completed session still gets its buffered report events; the
		// join failure is informational, not fatal.
		h.writeEvent(conn, event.Event{
			Type:      event.TypeError,
			SessionID: id,
			At:        time.Now(),
			Payload:   event.Error{Code: "join_failed", Message: err.Error()},
		})
	}

	go h.readPump(ctx, cancel, conn, id)
	h.writePump(ctx, conn, events)
}

// readPump consumes inbound commands until the connection drops.
func (h *Handler) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id string) {
	defer cancel()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.log.Debug(ctx, "dropping malformed command",
				logger.String("sessionID", id), logger.Error(err))
			continue
		}
		h.dispatch(ctx, id, cmd)
	}
}

func (h *Handler) dispatch(ctx context.Context, id string, cmd command) {
	var err error
	switch cmd.Type {
	case "answer":
		err = h.deps.SubmitAnswer(ctx, id, cmd.QuestionIndex, cmd.Transcript)
	case "attention":
		err = h.deps.ReportAttention(ctx, id, model.FaceSample{
			At:        time.Now(),
			Attention: cmd.Attention,
			Smiling:   cmd.Smiling,
			Faces:     cmd.Faces,
		})
	case "end":
		err = h.deps.EndSession(ctx, id)
	default:
		h.log.Debug(ctx, "unknown command type",
			logger.String("sessionID", id), logger.String("type", cmd.Type))
		return
	}
	if err != nil {
		h.log.Debug(ctx, "command rejected",
			logger.String("sessionID", id),
			logger.String("type", cmd.Type),
			logger.Error(err),
		)
	}
}

// writePump forwards session events and keeps the connection alive with
// pings. It exits when the event stream closes or the reader cancels.
func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, events <-chan event.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if !h.writeEvent(conn, e) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeEvent(conn *websocket.Conn, e event.Event) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e) == nil
}
