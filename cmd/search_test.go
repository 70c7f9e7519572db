package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/ui"
)

func seedJournal(t *testing.T) {
	t.Helper()
	base := now()
	createTestEntry(t, entry.Entry{CreatedAt: base.AddDate(0, 0, -30), Project: "api", Title: "Fix login", Description: "Login error on Safari", Tags: []string{"auth", "bugfix"}})
	createTestEntry(t, entry.Entry{CreatedAt: base.AddDate(0, 0, -1), Project: "web", Title: "Refactor auth", Description: "Split session handling", Tags: []string{"auth"}})
	createTestEntry(t, entry.Entry{CreatedAt: base.Add(-time.Hour), Project: "api", Title: "Deploy", Description: "Shipped the login error fix"})
}

func TestSearchRun(t *testing.T) {
	setupTestEnv(t)
	seedJournal(t)

	var buf bytes.Buffer
	if err := searchRun(&buf, "#auth", "", 0); err != nil {
		t.Fatalf("searchRun: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "Refactor auth") || !strings.Contains(lines[1], "Fix login") {
		t.Errorf("results not newest first:\n%s", buf.String())
	}
}

func TestSearchRunJSON(t *testing.T) {
	setupTestEnv(t)
	seedJournal(t)
	jsonOutput = true

	var buf bytes.Buffer
	if err := searchRun(&buf, `"login error" this week`, "api", 0); err != nil {
		t.Fatalf("searchRun: %v", err)
	}

	var got ui.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Count != 1 || got.Entries[0].Title != "Deploy" {
		t.Errorf("result = %+v", got)
	}
	if got.Query != `"login error" this week` {
		t.Errorf("query = %q", got.Query)
	}
}

func TestSearchRunLimitAndID(t *testing.T) {
	setupTestEnv(t)
	seedJournal(t)
	appConfig.Limits.Search = 1

	var buf bytes.Buffer
	if err := searchRun(&buf, "", "", 0); err != nil {
		t.Fatalf("searchRun: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), "Deploy") {
		t.Errorf("config limit not applied:\n%s", buf.String())
	}

	buf.Reset()
	if err := searchRun(&buf, "id:1", "", 0); err != nil {
		t.Fatalf("searchRun: %v", err)
	}
	if !strings.Contains(buf.String(), "Fix login") {
		t.Errorf("id lookup failed:\n%s", buf.String())
	}
}

func TestSearchRunSyntaxError(t *testing.T) {
	setupTestEnv(t)

	var buf bytes.Buffer
	err := searchRun(&buf, `"unterminated`, "", 0)
	if err == nil {
		t.Fatal("expected error for unterminated quote")
	}
	if ExitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", ExitCode(err))
	}
}

func TestWhenRun(t *testing.T) {
	setupTestEnv(t)
	seedJournal(t)

	var buf bytes.Buffer
	if err := whenRun(&buf, "last 2 days", "", "", 0); err != nil {
		t.Fatalf("whenRun: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "2024-03-11 15:00 to 2024-03-13 15:00") {
		t.Errorf("missing range label:\n%s", out)
	}
	if !strings.Contains(out, "Refactor auth") || !strings.Contains(out, "Deploy") || strings.Contains(out, "Fix login") {
		t.Errorf("unexpected entries:\n%s", out)
	}

	buf.Reset()
	if err := whenRun(&buf, "this month", "today", "", 0); err != nil {
		t.Fatalf("whenRun: %v", err)
	}
	if !strings.Contains(buf.String(), "No journal entries found.") {
		t.Errorf("time phrase in query should be a keyword:\n%s", buf.String())
	}
}

func TestWhenRunUnknownExpression(t *testing.T) {
	setupTestEnv(t)

	var buf bytes.Buffer
	err := whenRun(&buf, "someday", "", "", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "last 3 days") {
		t.Errorf("error should list supported formats: %v", err)
	}
}

func TestRecentRun(t *testing.T) {
	setupTestEnv(t)
	seedJournal(t)

	var buf bytes.Buffer
	if err := recentRun(&buf, "api", 1); err != nil {
		t.Fatalf("recentRun: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), "Deploy") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
