package sessionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// FileSink writes one JSON document per session next to basePath.
// basePath "logs/interview_log.json" yields logs/interview_log_<id>_<YYYYmmdd_HHMMSS>.json,
// stamped with the session start so later saves overwrite the same file.
type FileSink struct {
	dir      string
	stem     string
	teamName string
	logger   *logging.Logger
}

func NewFileSink(basePath, teamName string, logger *logging.Logger) *FileSink {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(basePath) == "" {
		basePath = "interview_log.json"
	}
	base := filepath.Base(basePath)
	return &FileSink{
		dir:      filepath.Dir(basePath),
		stem:     strings.TrimSuffix(base, filepath.Ext(base)),
		teamName: teamName,
		logger:   logger,
	}
}

// Path returns the file a session is written to.
func (f *FileSink) Path(state *interview.SessionState) string {
	name := fmt.Sprintf("%s_%s_%s.json", f.stem, state.ID, state.CreatedAt.UTC().Format("20060102_150405"))
	return filepath.Join(f.dir, name)
}

func (f *FileSink) SaveSession(ctx context.Context, state *interview.SessionState) error {
	if state == nil {
		return nil
	}
	data, err := json.MarshalIndent(NewDocument(f.teamName, state), "", "  ")
	if err != nil {
		return fmt.Errorf("sessionlog: marshal document: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("sessionlog: create log dir: %w", err)
	}

	path := f.Path(state)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("sessionlog: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("sessionlog: rename %s: %w", path, err)
	}
	f.logger.Debug("session log written", "session_id", state.ID, "path", path, "turns", state.Session.Ledger.Len())
	return nil
}
