package interview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// Service is the session lifecycle used by transports.
type Service interface {
	Start(ctx context.Context, profile *CandidateProfile) (*SessionState, error)
	Process(ctx context.Context, id, message string) (*SessionState, error)
	Get(ctx context.Context, id string) (*SessionState, error)
}

var _ Service = (*Manager)(nil)

// Handler wires HTTP requests to the interview service.
type Handler struct {
	service Service
	logger  *logging.Logger
}

// NewHandler creates an interview handler.
func NewHandler(service Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the interview endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/interviews", h.Start)
	r.Get("/interviews/{id}", h.Get)
	r.Post("/interviews/{id}/messages", h.Message)
	r.Get("/interviews/{id}/turns", h.Turns)
}

// MessageRequest is the body of POST /interviews/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// SessionView is the public projection of a session.
type SessionView struct {
	SessionID     string          `json:"session_id"`
	Status        Status          `json:"status"`
	TurnID        int             `json:"turn_id"`
	Message       string          `json:"message"`
	CurrentTopic  string          `json:"current_topic,omitempty"`
	Plan          *InterviewPlan  `json:"plan,omitempty"`
	Rationale     *TurnRationale  `json:"rationale,omitempty"`
	FinalFeedback *FinalFeedback  `json:"final_feedback,omitempty"`
	Evaluation    EvaluationState `json:"evaluation"`
}

// NewSessionView projects state for API clients.
func NewSessionView(s *SessionState) SessionView {
	return SessionView{
		SessionID:     s.ID,
		Status:        s.Status,
		TurnID:        s.TurnID,
		Message:       s.AgentMessage,
		CurrentTopic:  s.CurrentTopicName(),
		Plan:          s.Session.Plan,
		Rationale:     s.Session.LastRationale,
		FinalFeedback: s.Session.FinalFeedback,
		Evaluation:    s.Session.Evaluation,
	}
}

// maxBodyBytes caps request bodies; profiles and answers are short text.
const maxBodyBytes = 64 << 10

// decode reads a capped JSON body into v. On failure it has already written
// the response.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, what string, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	h.logger.Error("failed to decode "+what+" request", "error", err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, "Invalid request body", http.StatusBadRequest)
	return false
}

// Start handles POST /interviews.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var profile CandidateProfile
	if !h.decode(w, r, "start", &profile) {
		return
	}

	state, err := h.service.Start(r.Context(), &profile)
	if err != nil {
		h.writeError(w, "failed to start interview", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, NewSessionView(state))
}

// Message handles POST /interviews/{id}/messages.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req MessageRequest
	if !h.decode(w, r, "message", &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	state, err := h.service.Process(r.Context(), id, req.Message)
	if err != nil {
		h.writeError(w, "failed to process message", err)
		return
	}
	h.writeJSON(w, http.StatusOK, NewSessionView(state))
}

// Get handles GET /interviews/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to load interview", err)
		return
	}
	h.writeJSON(w, http.StatusOK, NewSessionView(state))
}

// Turns handles GET /interviews/{id}/turns.
func (h *Handler) Turns(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to load interview", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"session_id": state.ID,
		"turns":      state.Session.Ledger.Entries(),
	})
}

// StatusForError maps workflow errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionTerminated):
		return http.StatusConflict
	case errors.Is(err, ErrProfileMissing), errors.Is(err, ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	status := StatusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
		http.Error(w, "Internal server error", status)
		return
	}
	h.logger.Warn(msg, "error", err)
	http.Error(w, err.Error(), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
