// Package mcptools exposes the journal over the Model Context Protocol.
package mcptools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/storage"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// tools holds the dependencies shared by every handler.
type tools struct {
	store  storage.Storage
	cfg    *config.Config
	log    zerolog.Logger
	now    func() time.Time
	detect func() string
}

// NewJournalMCPServer creates an in-memory MCP server exposing the journal
// tools. Returns the server and a client transport for connecting to it.
func NewJournalMCPServer(store storage.Storage, cfg *config.Config) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(store, cfg, zerolog.Nop())

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered journal tools.
// cfg supplies the data directory for capture bookkeeping and the default
// result limits.
func CreateMCPServer(store storage.Storage, cfg *config.Config, log zerolog.Logger) *mcp.Server {
	return newServer(&tools{
		store:  store,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		detect: detectProject(cfg),
	})
}

func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "devjournal",
		Version: Version,
	}, nil)

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_add",
		Description: "Add a development journal entry with a title, Markdown description, optional project and tags",
	}, t.add)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_auto_capture",
		Description: "Record a periodic progress summary; the entry is tagged auto-capture",
	}, t.autoCapture)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_delete",
		Description: "Delete a journal entry by ID",
	}, t.delete)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_delete_by_project",
		Description: "Delete every journal entry of a project",
	}, t.deleteByProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_import",
		Description: "Import entries from a .db, .json or .yaml export, skipping duplicates",
	}, t.importEntries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_export",
		Description: "Export every entry to a .db, .json or .yaml file",
	}, t.exportEntries)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_search",
		Description: "Search journal entries with keywords, \"quoted phrases\", tag:name or #name, id:N and time phrases like \"last week\"",
	}, t.search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_time_query",
		Description: "List journal entries within a time expression such as today, last 3 days or january 2024",
	}, t.timeQuery)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_list_recent",
		Description: "List the most recent journal entries",
	}, t.listRecent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_list_projects",
		Description: "List projects with their entry counts",
	}, t.listProjects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "journal_stats",
		Description: "Summarize the journal: totals, first and last entry, entries per project",
	}, t.stats)

	return server
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
