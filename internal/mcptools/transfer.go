package mcptools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/devjournal/internal/transfer"
	"github.com/chris-regnier/devjournal/internal/ui"
)

func (t *tools) importEntries(ctx context.Context, req *mcp.CallToolRequest, input ImportInput) (*mcp.CallToolResult, ImportOutput, error) {
	res, err := transfer.Import(t.store, input.FilePath)
	if err != nil {
		return nil, ImportOutput{}, err
	}
	t.log.Info().Str("path", input.FilePath).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import")

	var b strings.Builder
	ui.FormatImport(&b, input.FilePath, res)
	return textResult(b.String()), ImportOutput{Imported: res.Imported, Skipped: res.Skipped}, nil
}

func (t *tools) exportEntries(ctx context.Context, req *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	path, n, err := transfer.Export(t.store, input.FilePath, t.now())
	if err != nil {
		return nil, ExportOutput{}, err
	}
	t.log.Info().Str("path", path).Int("exported", n).Msg("export")

	var b strings.Builder
	ui.FormatExport(&b, path, n)
	return textResult(b.String()), ExportOutput{Path: path, Exported: n}, nil
}
