package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestTurnsTableMatchesSinkColumns(t *testing.T) {
	data, err := fs.ReadFile(FS, "000002_interview_turns.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, col := range []string{"session_id", "turn_id", "agent_message", "user_message", "rationale", "created_at", "PRIMARY KEY (session_id, turn_id)"} {
		if !strings.Contains(string(data), col) {
			t.Errorf("expected %q in interview_turns schema", col)
		}
	}
}
