package sessionlog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func sampleState() *interview.SessionState {
	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	profile := &interview.CandidateProfile{Name: "Alex", Position: "Backend Developer", TargetGrade: interview.GradeJunior}
	s := interview.NewSessionState("sess-42", profile, created)
	s.Status = interview.StatusInProgress
	s.UpdatedAt = created.Add(time.Minute)
	answer := "goroutines are cheap"
	s.Session.Ledger.Append(interview.TurnLog{TurnID: 1, Timestamp: created, AgentMessage: "Hi Alex"})
	s.Session.Ledger.Append(interview.TurnLog{TurnID: 2, Timestamp: created.Add(time.Minute), AgentMessage: "Why?", UserMessage: &answer})
	return s
}

func TestFileSinkWritesDocument(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filepath.Join(dir, "interview_log.json"), "Team Rocket", testLogger())
	state := sampleState()

	require.NoError(t, sink.SaveSession(context.Background(), state))

	path := sink.Path(state)
	assert.Equal(t, filepath.Join(dir, "interview_log_sess-42_20250506_070809.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Team Rocket", doc.TeamName)
	assert.Equal(t, "sess-42", doc.SessionID)
	assert.Equal(t, "Alex", doc.CandidateProfile.Name)
	require.Len(t, doc.Turns, 2)
	assert.Nil(t, doc.Turns[0].UserMessage)
	assert.Nil(t, doc.FinalFeedback)

	// A later save overwrites the same file.
	state.Session.FinalFeedback = &interview.FinalFeedback{Decision: interview.Decision{Recommendation: interview.Hire}}
	require.NoError(t, sink.SaveSession(context.Background(), state))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewDocumentEmptyLedger(t *testing.T) {
	state := interview.NewSessionState("s", &interview.CandidateProfile{Position: "x"}, time.Now())
	data, err := json.Marshal(NewDocument("t", state))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"turns":[]`)
}

func TestPostgresSinkSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	state := sampleState()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO interview_sessions").
		WithArgs("sess-42", "in_progress", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 1, state.CreatedAt, state.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO interview_turns").
		WithArgs("sess-42", 1, "Hi Alex", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO interview_turns").
		WithArgs("sess-42", 2, "Why?", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	sink := newPostgresSink(mock, testLogger())
	require.NoError(t, sink.SaveSession(context.Background(), state))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkRollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO interview_sessions").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = newPostgresSink(mock, testLogger()).SaveSession(context.Background(), sampleState())
	assert.ErrorContains(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

type fakeS3 struct {
	puts []*s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, params)
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ArchiveCompletedOnly(t *testing.T) {
	client := &fakeS3{}
	archive := NewS3Archive(client, "bucket", "Team", testLogger())
	state := sampleState()

	require.NoError(t, archive.SaveSession(context.Background(), state))
	assert.Empty(t, client.puts, "in-progress sessions are not archived")

	state.Status = interview.StatusCompleted
	require.NoError(t, archive.SaveSession(context.Background(), state))
	require.Len(t, client.puts, 1)
	assert.Equal(t, "bucket", aws.ToString(client.puts[0].Bucket))
	assert.Equal(t, "interviews/v1/by-date/2025/05/06/sess-42.json", aws.ToString(client.puts[0].Key))

	var doc Document
	require.NoError(t, json.Unmarshal(client.body, &doc))
	assert.Equal(t, interview.StatusCompleted, doc.Status)
}

func TestS3ArchiveDisabled(t *testing.T) {
	state := sampleState()
	state.Status = interview.StatusCompleted
	assert.False(t, NewS3Archive(nil, "bucket", "", nil).Enabled())
	assert.NoError(t, NewS3Archive(&fakeS3{}, "", "", nil).SaveSession(context.Background(), state))
}

type errSink struct{ err error }

func (e errSink) SaveSession(ctx context.Context, state *interview.SessionState) error { return e.err }

func TestMultiJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	client := &fakeS3{}
	state := sampleState()
	state.Status = interview.StatusCompleted

	sink := Multi(errSink{errA}, nil, NewS3Archive(client, "bucket", "", testLogger()), errSink{errB})
	err := sink.SaveSession(context.Background(), state)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, client.puts, 1, "a failing sink does not stop the others")

	assert.NoError(t, Multi().SaveSession(context.Background(), state))
}
