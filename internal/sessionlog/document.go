// Package sessionlog persists interview sessions outside the live session store.
package sessionlog

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/interview-coach/internal/interview"
)

// Document is the exported record of one interview session.
type Document struct {
	TeamName         string                      `json:"team_name"`
	SessionID        string                      `json:"session_id"`
	Status           interview.Status            `json:"status"`
	CandidateProfile *interview.CandidateProfile `json:"candidate_profile"`
	Turns            []interview.TurnLog         `json:"turns"`
	FinalFeedback    *interview.FinalFeedback    `json:"final_feedback"`
	StartedAt        time.Time                   `json:"started_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// NewDocument builds the export record for state.
func NewDocument(teamName string, state *interview.SessionState) Document {
	turns := state.Session.Ledger.Entries()
	if turns == nil {
		turns = []interview.TurnLog{}
	}
	return Document{
		TeamName:         teamName,
		SessionID:        state.ID,
		Status:           state.Status,
		CandidateProfile: state.Profile,
		Turns:            turns,
		FinalFeedback:    state.Session.FinalFeedback,
		StartedAt:        state.CreatedAt,
		UpdatedAt:        state.UpdatedAt,
	}
}

type multiSink []interview.SessionSink

// Multi fans a save out to every sink and joins their errors.
func Multi(sinks ...interview.SessionSink) interview.SessionSink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) SaveSession(ctx context.Context, state *interview.SessionState) error {
	var errs []error
	for _, s := range m {
		if err := s.SaveSession(ctx, state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
