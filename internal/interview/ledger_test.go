package interview

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAppendAndRetrieve(t *testing.T) {
	var ledger TurnLedger
	msg := "my answer"
	rationale := TurnRationale{}
	rationale.Record(RouterReport{Action: ActionAskQuestion, Topic: "Go"})

	ledger.Append(TurnLog{TurnID: 1, AgentMessage: "hello"})
	ledger.Append(TurnLog{TurnID: 2, AgentMessage: "question", UserMessage: &msg, Rationale: rationale})

	require.Equal(t, 2, ledger.Len())
	first, ok := ledger.At(0)
	require.True(t, ok)
	assert.Equal(t, 1, first.TurnID)
	assert.Nil(t, first.UserMessage)

	second, ok := ledger.At(1)
	require.True(t, ok)
	assert.Equal(t, "my answer", *second.UserMessage)
	assert.Equal(t, ActionAskQuestion, second.Rationale.Router.Action)

	_, ok = ledger.At(2)
	assert.False(t, ok)
	_, ok = ledger.At(-1)
	assert.False(t, ok)
}

func TestLedgerEntriesAreImmutable(t *testing.T) {
	var ledger TurnLedger
	msg := "original"
	r := TurnRationale{}
	r.Record(AnalyzerReport{Quality: QualityGood})
	ledger.Append(TurnLog{TurnID: 2, UserMessage: &msg, Rationale: r})

	// Mutating the caller's values after append must not leak in.
	msg = "changed"
	r.Analyzer.Quality = QualityPoor

	entries := ledger.Entries()
	*entries[0].UserMessage = "tampered"
	entries[0].TurnID = 99

	got, _ := ledger.At(0)
	assert.Equal(t, "original", *got.UserMessage)
	assert.Equal(t, 2, got.TurnID)
	assert.Equal(t, QualityGood, got.Rationale.Analyzer.Quality)
}

func TestLedgerPreservesOrderThroughJSON(t *testing.T) {
	var ledger TurnLedger
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		ledger.Append(TurnLog{TurnID: i, Timestamp: ts, AgentMessage: "m"})
	}

	data, err := json.Marshal(ledger)
	require.NoError(t, err)

	var decoded TurnLedger
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 5, decoded.Len())
	for i, e := range decoded.Entries() {
		assert.Equal(t, i+1, e.TurnID)
		assert.True(t, ts.Equal(e.Timestamp))
	}
}

func TestEmptyLedgerMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(TurnLedger{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSessionStateJSONKeepsLedger(t *testing.T) {
	s := NewSessionState("abc", testProfile(), time.Now().UTC())
	s.Session.Ledger.Append(TurnLog{TurnID: 1, AgentMessage: "hi"})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded SessionState
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Session.Ledger.Len())
	assert.Equal(t, "Alex", decoded.Profile.Name)
}
