package cmd

import (
	"testing"
	"time"

	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/storage/markdown"
	"github.com/chris-regnier/devjournal/internal/ui"
)

func setupTestStore(t *testing.T, dir string) storage.Storage {
	t.Helper()
	s, err := markdown.New(dir)
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setupTestEnv points the command globals at a fresh markdown store and a
// fixed clock. It returns the data directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store = setupTestStore(t, dir)
	appConfig = &config.Config{Storage: "markdown", DataDir: dir}
	jsonOutput = false
	showDescriptionOnly = false

	fixed := time.Date(2024, time.March, 13, 15, 0, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	t.Cleanup(func() {
		now = time.Now
		confirm = ui.ConfirmDeletion
	})
	return dir
}

func createTestEntry(t *testing.T, e entry.Entry) entry.Entry {
	t.Helper()
	created, err := store.Create(e)
	if err != nil {
		t.Fatalf("creating entry: %v", err)
	}
	return created
}

func stubConfirm(answer bool) *int {
	calls, _ := recordConfirm(answer)
	return calls
}

// recordConfirm stubs the deletion prompt and keeps what it was shown.
func recordConfirm(answer bool) (*int, *ui.Deletion) {
	calls := 0
	var shown ui.Deletion
	confirm = func(d ui.Deletion) (bool, error) {
		calls++
		shown = d
		return answer, nil
	}
	return &calls, &shown
}
