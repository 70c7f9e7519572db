package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/journal"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
	"github.com/chris-regnier/devjournal/internal/ui"
)

func (t *tools) limits() (search, recent, timeQuery int) {
	search, recent = config.DefaultLimits.Search, config.DefaultLimits.Recent
	if t.cfg == nil {
		return search, recent, config.DefaultLimits.TimeQuery
	}
	return journal.Limit(t.cfg.Limits.Search, search),
		journal.Limit(t.cfg.Limits.Recent, recent),
		t.cfg.Limits.TimeQuery
}

func (t *tools) search(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, EntriesOutput, error) {
	fallback, _, _ := t.limits()
	res, err := journal.Search(t.store, input.Query, input.Project, journal.Limit(input.Limit, fallback), t.now())
	if err != nil {
		return nil, EntriesOutput{}, err
	}
	t.log.Debug().Str("query", input.Query).Str("filter", res.Filter.String()).Int("matches", len(res.Entries)).Msg("search")

	label := ""
	if !res.Filter.IsEmpty() {
		label = res.Filter.String()
	}
	return textResult(ui.FormatEntriesMarkdown(res.Entries, label)), EntriesOutput{
		Entries: toResults(res.Entries),
	}, nil
}

func (t *tools) timeQuery(ctx context.Context, req *mcp.CallToolRequest, input TimeQueryInput) (*mcp.CallToolResult, EntriesOutput, error) {
	_, _, fallback := t.limits()
	res, err := journal.TimeQuery(t.store, input.TimeExpression, input.Query, input.Project, journal.Limit(input.Limit, fallback), t.now())
	if err != nil {
		var perr *timeexpr.ParseError
		if errors.As(err, &perr) {
			return nil, EntriesOutput{}, fmt.Errorf("%v. Supported formats: %s", err, strings.Join(timeexpr.Examples, ", "))
		}
		return nil, EntriesOutput{}, err
	}
	r := *res.Filter.TimeRange
	t.log.Debug().Str("expression", input.TimeExpression).Stringer("range", r).Int("matches", len(res.Entries)).Msg("time query")

	return textResult(ui.FormatEntriesMarkdown(res.Entries, ui.RangeLabel(r))), EntriesOutput{
		Entries: toResults(res.Entries),
		Start:   formatTime(r.Start),
		End:     formatTime(r.End),
	}, nil
}

func (t *tools) listRecent(ctx context.Context, req *mcp.CallToolRequest, input RecentInput) (*mcp.CallToolResult, EntriesOutput, error) {
	_, fallback, _ := t.limits()
	entries, err := journal.Recent(t.store, input.Project, journal.Limit(input.Limit, fallback))
	if err != nil {
		return nil, EntriesOutput{}, err
	}
	return textResult(ui.FormatEntriesMarkdown(entries, "recent")), EntriesOutput{
		Entries: toResults(entries),
	}, nil
}

func (t *tools) listProjects(ctx context.Context, req *mcp.CallToolRequest, input NoInput) (*mcp.CallToolResult, ProjectsOutput, error) {
	counts, err := t.store.Projects()
	if err != nil {
		return nil, ProjectsOutput{}, err
	}
	if counts == nil {
		counts = []storage.ProjectCount{}
	}
	return textResult(ui.FormatProjectsMarkdown(counts)), ProjectsOutput{Projects: counts}, nil
}

func (t *tools) stats(ctx context.Context, req *mcp.CallToolRequest, input NoInput) (*mcp.CallToolResult, StatsOutput, error) {
	st, err := t.store.Stats()
	if err != nil {
		return nil, StatsOutput{}, err
	}

	out := StatsOutput{
		TotalEntries:  st.TotalEntries,
		TotalProjects: st.TotalProjects,
		Projects:      st.Projects,
	}
	if out.Projects == nil {
		out.Projects = []storage.ProjectCount{}
	}
	if st.FirstEntry != nil {
		out.FirstEntry = formatTime(*st.FirstEntry)
	}
	if st.LastEntry != nil {
		out.LastEntry = formatTime(*st.LastEntry)
	}
	return textResult(ui.FormatStatsMarkdown(st)), out, nil
}
