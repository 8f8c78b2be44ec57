package webchat

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
	"golang.org/x/net/websocket"
)

// writeTimeout bounds every frame write so a stalled client cannot hold up
// the sender.
const writeTimeout = 5 * time.Second

func send(conn *websocket.Conn, msg OutboundMessage, timeout time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return websocket.JSON.Send(conn, msg)
}

// Hub tracks the sockets attached to each interview session.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]map[*websocket.Conn]struct{}
	writeTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]map[*websocket.Conn]struct{}),
		writeTimeout: writeTimeout,
	}
}

func (h *Hub) attach(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.sessions[sessionID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.sessions[sessionID] = conns
	}
	conns[conn] = struct{}{}
}

func (h *Hub) detach(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.sessions[sessionID]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.sessions, sessionID)
	}
}

// Connections returns how many sockets watch sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Broadcast sends msg to every socket attached to sessionID. A socket whose
// write fails or times out is detached.
func (h *Hub) Broadcast(sessionID string, msg OutboundMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		if err := send(c, msg, h.writeTimeout); err != nil {
			h.detach(sessionID, c)
		}
	}
}

// StatusNotifier pushes a status frame to attached sockets whenever a
// session is persisted.
type StatusNotifier struct {
	hub    *Hub
	logger *logging.Logger
}

var _ interview.SessionSink = (*StatusNotifier)(nil)

func NewStatusNotifier(hub *Hub, logger *logging.Logger) *StatusNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusNotifier{hub: hub, logger: logger}
}

func (n *StatusNotifier) SaveSession(ctx context.Context, state *interview.SessionState) error {
	if n.hub == nil || state == nil || n.hub.Connections(state.ID) == 0 {
		return nil
	}
	n.hub.Broadcast(state.ID, OutboundMessage{
		Type:      TypeStatus,
		SessionID: state.ID,
		Status:    string(state.Status),
		TurnID:    state.TurnID,
		Topic:     state.CurrentTopicName(),
	})
	n.logger.Debug("webchat: status pushed", "session_id", state.ID, "status", state.Status)
	return nil
}
