package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
	"golang.org/x/net/websocket"
)

// Frame types.
const (
	TypeStart    = "start"
	TypeMessage  = "message"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeSession  = "session"
	TypeHistory  = "history"
	TypeFeedback = "feedback"
	TypeStatus   = "status"
	TypeError    = "error"
)

// InboundMessage is what the chat client sends.
type InboundMessage struct {
	Type    string                      `json:"type"` // "start", "message", "ping"
	Text    string                      `json:"text,omitempty"`
	Profile *interview.CandidateProfile `json:"profile,omitempty"`
}

// OutboundMessage is what we send to the chat client.
type OutboundMessage struct {
	Type      string           `json:"type"`
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Status    string           `json:"status,omitempty"`
	TurnID    int              `json:"turn_id,omitempty"`
	Topic     string           `json:"topic,omitempty"`
	Rationale string           `json:"rationale,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is one prior message replayed on connect.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Handler runs interviews over WebSocket at /ws/interviews?session=<id>.
type Handler struct {
	service interview.Service
	hub     *Hub
	logger  *logging.Logger
}

func NewHandler(service interview.Service, hub *Hub, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if hub == nil {
		hub = NewHub()
	}
	return &Handler{service: service, hub: hub, logger: logger}
}

// HandleWebSocket upgrades the request and serves the interview session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("session")

	if sessionID != "" {
		state, err := h.service.Get(ctx, sessionID)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.sendSession(conn, state)
		h.sendHistory(conn, state)
		if state.Completed() {
			h.sendFeedback(conn, state)
		}
	}

	attached := ""
	defer func() {
		if attached != "" {
			h.hub.detach(attached, conn)
		}
	}()
	attach := func(id string) {
		if attached == "" {
			attached = id
			h.hub.attach(id, conn)
		}
	}
	if sessionID != "" {
		attach(sessionID)
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", attached, "error", err)
			return
		}

		switch msg.Type {
		case TypePing:
			_ = send(conn, OutboundMessage{Type: TypePong}, writeTimeout)
		case TypeStart:
			if attached != "" {
				_ = send(conn, OutboundMessage{Type: TypeError, Text: "interview already started"}, writeTimeout)
				continue
			}
			state, err := h.service.Start(ctx, msg.Profile)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			attach(state.ID)
			h.sendSession(conn, state)
			h.sendAgentMessage(conn, state)
		case TypeMessage:
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			if attached == "" {
				_ = send(conn, OutboundMessage{Type: TypeError, Text: "no interview session"}, writeTimeout)
				continue
			}
			h.processMessage(ctx, conn, attached, msg.Text)
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	state, err := h.service.Process(ctx, sessionID, text)
	if err != nil {
		h.logger.Warn("webchat: failed to process message", "session_id", sessionID, "error", err)
		h.sendError(conn, err)
		return
	}
	h.sendAgentMessage(conn, state)
	if state.Completed() {
		h.sendFeedback(conn, state)
	}
}

func (h *Handler) sendSession(conn *websocket.Conn, state *interview.SessionState) {
	_ = send(conn, OutboundMessage{
		Type:      TypeSession,
		SessionID: state.ID,
		Status:    string(state.Status),
		TurnID:    state.TurnID,
		Topic:     state.CurrentTopicName(),
	}, writeTimeout)
}

func (h *Handler) sendHistory(conn *websocket.Conn, state *interview.SessionState) {
	if len(state.Session.History) == 0 {
		return
	}
	history := make([]HistoryMessage, 0, len(state.Session.History))
	for _, m := range state.Session.History {
		history = append(history, HistoryMessage{Role: m.Role, Text: m.Content})
	}
	_ = send(conn, OutboundMessage{Type: TypeHistory, Messages: history}, writeTimeout)
}

func (h *Handler) sendAgentMessage(conn *websocket.Conn, state *interview.SessionState) {
	_ = send(conn, OutboundMessage{
		Type:      TypeMessage,
		Role:      interview.RoleInterviewer,
		Text:      state.AgentMessage,
		SessionID: state.ID,
		TurnID:    state.TurnID,
		Topic:     state.CurrentTopicName(),
		Rationale: interview.RenderRationale(state.Session.LastRationale),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, writeTimeout)
}

func (h *Handler) sendFeedback(conn *websocket.Conn, state *interview.SessionState) {
	_ = send(conn, OutboundMessage{
		Type:      TypeFeedback,
		SessionID: state.ID,
		Text:      interview.RenderFeedback(state.Session.FinalFeedback),
	}, writeTimeout)
}

func (h *Handler) sendError(conn *websocket.Conn, err error) {
	text := "Sorry, something went wrong. Please try again."
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		text = "interview session not found"
	case errors.Is(err, interview.ErrSessionTerminated):
		text = "the interview is already complete"
	case errors.Is(err, interview.ErrProfileMissing), errors.Is(err, interview.ErrInvalidProfile):
		text = err.Error()
	}
	_ = send(conn, OutboundMessage{Type: TypeError, Text: text}, writeTimeout)
}
