package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/devjournal/internal/capture"
	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/project"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/ui"
)

func detectProject(cfg *config.Config) func() string {
	return func() string {
		if cfg == nil || !cfg.DetectProject {
			return ""
		}
		return project.Detect("")
	}
}

func (t *tools) create(input AddInput, tags []string) (entry.Entry, error) {
	proj := input.Project
	if proj == "" {
		proj = t.detect()
	}
	e, err := entry.New(input.Title, input.Description, proj, tags)
	if err != nil {
		return entry.Entry{}, err
	}
	e.CreatedAt = t.now()
	return t.store.Create(e)
}

func (t *tools) add(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, AddOutput, error) {
	e, err := t.create(input, input.Tags)
	if err != nil {
		return nil, AddOutput{}, err
	}
	t.log.Info().Int64("id", e.ID).Str("project", e.Project).Msg("entry added")

	var b strings.Builder
	ui.FormatEntryCreated(&b, e)
	return textResult(b.String()), AddOutput{
		ID:        e.ID,
		CreatedAt: formatTime(e.CreatedAt),
	}, nil
}

func (t *tools) autoCapture(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, AddOutput, error) {
	tags := append([]string{entry.AutoCaptureTag}, input.Tags...)
	e, err := t.create(input, tags)
	if err != nil {
		return nil, AddOutput{}, err
	}

	// The entry is already stored; a failed state update only delays the next prompt.
	if t.cfg != nil && t.cfg.DataDir != "" {
		if _, err := capture.MarkCaptured(t.cfg.DataDir, t.now()); err != nil {
			t.log.Warn().Err(err).Msg("updating capture state")
		}
	}
	t.log.Info().Int64("id", e.ID).Str("project", e.Project).Msg("auto-capture recorded")

	return textResult(fmt.Sprintf("Captured entry #%d: %s", e.ID, e.Title)), AddOutput{
		ID:        e.ID,
		CreatedAt: formatTime(e.CreatedAt),
	}, nil
}

func (t *tools) delete(ctx context.Context, req *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := t.store.Delete(input.EntryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, DeleteOutput{}, fmt.Errorf("entry %d not found", input.EntryID)
		}
		return nil, DeleteOutput{}, err
	}
	t.log.Info().Int64("id", input.EntryID).Msg("entry deleted")

	var b strings.Builder
	ui.FormatEntryDeleted(&b, input.EntryID)
	return textResult(b.String()), DeleteOutput{
		ID:      input.EntryID,
		Deleted: true,
	}, nil
}

func (t *tools) deleteByProject(ctx context.Context, req *mcp.CallToolRequest, input DeleteProjectInput) (*mcp.CallToolResult, DeleteProjectOutput, error) {
	n, err := t.store.DeleteByProject(input.Project)
	if err != nil {
		return nil, DeleteProjectOutput{}, err
	}
	t.log.Info().Str("project", input.Project).Int("deleted", n).Msg("project entries deleted")

	var b strings.Builder
	ui.FormatProjectDeleted(&b, input.Project, n)
	return textResult(b.String()), DeleteProjectOutput{
		Project: input.Project,
		Deleted: n,
	}, nil
}
