package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store is the session registry. Load returns ErrSessionNotFound for unknown
// ids. Implementations hand out copies, never shared state.
type Store interface {
	Load(ctx context.Context, id string) (*SessionState, error)
	Save(ctx context.Context, state *SessionState) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*SessionState)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return state.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, state *SessionState) error {
	if state == nil || state.ID == "" {
		return errors.New("interview: cannot store session without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state.Clone()
	return nil
}

const defaultSessionTTL = 24 * time.Hour

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("interview: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("interview.internal.interview.store")
	}
	return &RedisStore{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisStore) Save(ctx context.Context, state *SessionState) error {
	ctx, span := s.tracer.Start(ctx, "interview.save_session")
	defer span.End()

	if state == nil || state.ID == "" {
		return errors.New("interview: cannot store session without id")
	}
	span.SetAttributes(
		attribute.String("interview.session_id", state.ID),
		attribute.Int("interview.turn_id", state.TurnID),
	)
	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("interview: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(state.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("interview: failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*SessionState, error) {
	ctx, span := s.tracer.Start(ctx, "interview.load_session")
	defer span.End()
	span.SetAttributes(attribute.String("interview.session_id", id))

	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("interview: failed to load session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("interview: failed to decode session: %w", err)
	}
	return &state, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("interview:session:%s", id)
}
