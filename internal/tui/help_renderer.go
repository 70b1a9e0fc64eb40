package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Wrap bounds for the help overlay. The key reference is a narrow table, so
// very wide terminals still render it at a readable column width.
const (
	minHelpWrap = 24
	maxHelpWrap = 72
)

// helpRenderer styles the static key reference through glamour. The source
// markdown never changes at runtime, so the rendered output is cached per
// wrap width and recomputed only after a resize crosses a clamp boundary.
type helpRenderer struct {
	width    int
	rendered string
}

// render returns the styled key reference for the given terminal width.
func (r *helpRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrap := clampHelpWrap(width)
	if r.rendered != "" && r.width == wrap {
		return r.rendered
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return markdown
	}
	styled, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	r.width = wrap
	r.rendered = strings.TrimRight(styled, "\n")
	return r.rendered
}

// clampHelpWrap keeps the wrap width inside the readable band.
func clampHelpWrap(width int) int {
	if width < minHelpWrap {
		return minHelpWrap
	}
	if width > maxHelpWrap {
		return maxHelpWrap
	}
	return width
}
