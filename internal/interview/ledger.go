package interview

import (
	"encoding/json"
	"time"
)

// TurnLog is the audit record for one turn. The greeting is turn 1 and has no
// user message.
type TurnLog struct {
	TurnID       int           `json:"turn_id"`
	Timestamp    time.Time     `json:"timestamp"`
	AgentMessage string        `json:"agent_visible_message"`
	UserMessage  *string       `json:"user_message"`
	Rationale    TurnRationale `json:"internal_thoughts"`
}

func (l TurnLog) clone() TurnLog {
	out := l
	if l.UserMessage != nil {
		msg := *l.UserMessage
		out.UserMessage = &msg
	}
	out.Rationale = l.Rationale.Clone()
	return out
}

// TurnLedger is an append-only list of turn logs. Entries are copied on the
// way in and out so nothing outside the ledger can change them.
type TurnLedger struct {
	entries []TurnLog
}

// Append adds a log after the existing entries.
func (l *TurnLedger) Append(entry TurnLog) {
	l.entries = append(l.entries, entry.clone())
}

// Len returns the number of entries.
func (l TurnLedger) Len() int { return len(l.entries) }

// At returns the i-th entry in append order.
func (l TurnLedger) At(i int) (TurnLog, bool) {
	if i < 0 || i >= len(l.entries) {
		return TurnLog{}, false
	}
	return l.entries[i].clone(), true
}

// Last returns the most recent entry.
func (l TurnLedger) Last() (TurnLog, bool) {
	return l.At(len(l.entries) - 1)
}

// Entries returns a copy of every entry in append order.
func (l TurnLedger) Entries() []TurnLog {
	var out []TurnLog
	for _, e := range l.entries {
		out = append(out, e.clone())
	}
	return out
}

// Clone returns an independent ledger with the same entries.
func (l TurnLedger) Clone() TurnLedger {
	return TurnLedger{entries: l.Entries()}
}

func (l TurnLedger) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

func (l *TurnLedger) UnmarshalJSON(data []byte) error {
	var entries []TurnLog
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}
