package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// Manager owns the session lifecycle: it allocates ids, serializes turns per
// session and writes results back to the store.
type Manager struct {
	engine *Engine
	store  Store
	logger *logging.Logger
	newID  func() string

	locks sync.Map // session id -> *sync.Mutex
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithIDGenerator overrides uuid-based session ids.
func WithIDGenerator(fn func() string) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

func NewManager(engine *Engine, store Store, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if engine == nil {
		panic("interview: engine cannot be nil")
	}
	if store == nil {
		panic("interview: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		engine: engine,
		store:  store,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) lock(id string) func() {
	v, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// forget drops the session's lock once no further turn can run. Callers still
// holding the old mutex only see a finished or missing session.
func (m *Manager) forget(id string) {
	m.locks.Delete(id)
}

// Start opens a new interview and returns its initial state.
func (m *Manager) Start(ctx context.Context, profile *CandidateProfile) (*SessionState, error) {
	id := m.newID()
	unlock := m.lock(id)
	defer unlock()

	state, err := m.engine.StartInterview(ctx, id, profile)
	if err != nil {
		m.forget(id)
		return state, err
	}
	if err := m.store.Save(ctx, state); err != nil {
		m.forget(id)
		return nil, fmt.Errorf("interview: save new session: %w", err)
	}
	m.logger.WithSession(id).Info("interview started", "position", profile.Position, "target_grade", profile.TargetGrade)
	return state.Clone(), nil
}

// Process submits a candidate message. Calls for the same session run one at a
// time; different sessions do not block each other.
func (m *Manager) Process(ctx context.Context, id, message string) (*SessionState, error) {
	unlock := m.lock(id)
	defer unlock()

	current, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			m.forget(id)
		}
		return nil, err
	}
	next, err := m.engine.ProcessTurn(ctx, current, message)
	if err != nil {
		if errors.Is(err, ErrSessionTerminated) {
			m.forget(id)
		}
		return nil, err
	}
	if err := m.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("interview: save session: %w", err)
	}
	if next.Completed() {
		m.forget(id)
	}
	return next.Clone(), nil
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (*SessionState, error) {
	return m.store.Load(ctx, id)
}
