package sessionlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Archive.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores completed sessions in S3. In-progress saves are skipped.
type S3Archive struct {
	bucket   string
	teamName string
	client   S3API
	logger   *logging.Logger
}

// NewS3Archive creates an archive. An empty bucket makes every save a no-op.
func NewS3Archive(client S3API, bucket, teamName string, logger *logging.Logger) *S3Archive {
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Archive{bucket: bucket, teamName: teamName, client: client, logger: logger}
}

// Enabled reports whether a bucket and client are configured.
func (a *S3Archive) Enabled() bool {
	return a != nil && a.bucket != "" && a.client != nil
}

// Key returns the object key for a session archived at t.
func Key(sessionID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("interviews/v1/by-date/%d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), sessionID)
}

func (a *S3Archive) SaveSession(ctx context.Context, state *interview.SessionState) error {
	if !a.Enabled() || state == nil || !state.Completed() {
		return nil
	}

	data, err := json.Marshal(NewDocument(a.teamName, state))
	if err != nil {
		return fmt.Errorf("sessionlog: marshal archive: %w", err)
	}

	at := state.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}
	key := Key(state.ID, at)
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("sessionlog: s3 put %s: %w", key, err)
	}

	a.logger.Info("archived interview to S3",
		"session_id", state.ID,
		"s3_key", key,
		"turns", state.Session.Ledger.Len(),
	)
	return nil
}
