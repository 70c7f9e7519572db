package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultMarkdownStyle is the glamour style used when none is configured.
const DefaultMarkdownStyle = "dark"

// renderer caches one glamour renderer per width and style. The MCP server
// renders from concurrent handlers, so access goes through mu.
var renderer struct {
	mu    sync.Mutex
	r     *glamour.TermRenderer
	width int
	style string
}

func termRenderer(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	if style == "" {
		style = DefaultMarkdownStyle
	}

	if renderer.r != nil && renderer.width == width && renderer.style == style {
		return renderer.r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderer.r, renderer.width, renderer.style = r, width, style
	return r, nil
}

// RenderMarkdownWithStyle renders markdown content using the specified glamour style.
// Returns the original content if rendering fails.
func RenderMarkdownWithStyle(content string, width int, style string) string {
	if content == "" {
		return ""
	}

	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	r, err := termRenderer(width, style)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// RenderMarkdown renders markdown content to a rich text string suitable for terminal display.
func RenderMarkdown(content string, width int) string {
	return RenderMarkdownWithStyle(content, width, DefaultMarkdownStyle)
}
