package sessionlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink stores session snapshots and the append-only turn ledger.
type PostgresSink struct {
	db     db
	logger *logging.Logger
}

func NewPostgresSink(pool *pgxpool.Pool, logger *logging.Logger) *PostgresSink {
	if pool == nil {
		panic("sessionlog: pgx pool cannot be nil")
	}
	return newPostgresSink(pool, logger)
}

func newPostgresSink(conn db, logger *logging.Logger) *PostgresSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresSink{db: conn, logger: logger}
}

const upsertSessionSQL = `
	INSERT INTO interview_sessions (
		session_id, status, candidate_profile, plan, evaluation, final_feedback,
		turn_id, created_at, updated_at
	)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (session_id) DO UPDATE SET
		status = EXCLUDED.status,
		plan = EXCLUDED.plan,
		evaluation = EXCLUDED.evaluation,
		final_feedback = EXCLUDED.final_feedback,
		turn_id = EXCLUDED.turn_id,
		updated_at = EXCLUDED.updated_at
`

const insertTurnSQL = `
	INSERT INTO interview_turns (
		session_id, turn_id, agent_message, user_message, rationale, created_at
	)
	VALUES ($1,$2,$3,$4,$5,$6)
	ON CONFLICT (session_id, turn_id) DO NOTHING
`

func (s *PostgresSink) SaveSession(ctx context.Context, state *interview.SessionState) error {
	if state == nil {
		return errors.New("sessionlog: session cannot be nil")
	}

	profileJSON, err := marshalJSON(state.Profile)
	if err != nil {
		return err
	}
	planJSON, err := marshalJSON(state.Session.Plan)
	if err != nil {
		return err
	}
	evalJSON, err := marshalJSON(state.Session.Evaluation)
	if err != nil {
		return err
	}
	feedbackJSON, err := marshalJSON(state.Session.FinalFeedback)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("sessionlog: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertSessionSQL,
		state.ID, string(state.Status), profileJSON, planJSON, evalJSON, feedbackJSON,
		state.TurnID, state.CreatedAt, state.UpdatedAt,
	); err != nil {
		return fmt.Errorf("sessionlog: upsert session %s: %w", state.ID, err)
	}

	for _, turn := range state.Session.Ledger.Entries() {
		rationaleJSON, err := marshalJSON(turn.Rationale)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertTurnSQL,
			state.ID, turn.TurnID, turn.AgentMessage, turn.UserMessage, rationaleJSON, turn.Timestamp,
		); err != nil {
			return fmt.Errorf("sessionlog: insert turn %d: %w", turn.TurnID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("sessionlog: commit: %w", err)
	}
	return nil
}

// marshalJSON returns nil for nil values so the column stays NULL.
func marshalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: marshal: %w", err)
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
