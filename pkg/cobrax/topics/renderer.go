package topics

import (
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/arthur-debert/outfit/pkg/style"
)

// Renderer defines the interface for rendering topic content
type Renderer interface {
	// Render takes raw content and returns formatted content for terminal display
	Render(content string, format string) string
}

// PlainRenderer is the default renderer that returns content as-is
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}

// TagRenderer runs non-markdown topics through the template pipeline, so
// topics can use [style] markup and template helpers.
type TagRenderer struct {
	Theme   *style.Theme
	Context render.Context
}

// NewTagRenderer creates a TagRenderer for theme and ctx.
func NewTagRenderer(theme *style.Theme, ctx render.Context) *TagRenderer {
	return &TagRenderer{Theme: theme, Context: ctx}
}

// Render renders content with no data. Markdown passes through untouched,
// and so does content that fails to render.
func (r *TagRenderer) Render(content string, format string) string {
	if format == ".md" || r.Theme == nil {
		return content
	}
	out, err := render.RenderString(content, nil, r.Theme, r.Context)
	if err != nil {
		return content
	}
	return out.Formatted
}

// Chain applies renderers in order. Each renderer ignores the formats it
// does not handle.
type Chain []Renderer

// Render feeds content through every renderer.
func (c Chain) Render(content string, format string) string {
	for _, r := range c {
		content = r.Render(content, format)
	}
	return content
}
