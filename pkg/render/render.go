package render

import (
	"strings"

	"github.com/arthur-debert/outfit/pkg/engine"
	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/lipbalm"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/style"
)

// Output is the result of one render.
type Output struct {
	// Formatted is the output for the resolved mode.
	Formatted string
	// Raw is the same output with every marker removed, for pagers,
	// clipboards and pipes. Structured modes have Raw == Formatted.
	Raw string
	// Unknown lists the style names that did not resolve, each once.
	Unknown []string
	// Mode is the concrete mode that was rendered.
	Mode OutputMode
}

// Err reports unknown style names as an error, or nil.
func (o *Output) Err() error {
	if e := o.unknownError(); e != nil {
		return e
	}
	return nil
}

func (o *Output) unknownError() *errors.OutfitError {
	if o == nil || len(o.Unknown) == 0 {
		return nil
	}
	return errors.Newf(errors.ErrUnknownStyle, "unknown style names: %s", strings.Join(o.Unknown, ", ")).
		WithDetail("names", o.Unknown)
}

// Render runs the pipeline: structured modes serialize data directly;
// textual modes run the template pass then the tag pass.
func Render(src engine.Source, data interface{}, theme *style.Theme, ctx Context) (*Output, error) {
	logger := logging.GetLogger("render")
	mode := ctx.ResolvedMode()

	if mode.IsStructured() {
		out, err := Serialize(mode, data, ctx.Interactive)
		if err != nil {
			return nil, err
		}
		logger.Trace().Str("template", src.Name).Str("mode", mode.String()).Msg("structured output, template skipped")
		return &Output{Formatted: out, Raw: out, Mode: mode}, nil
	}

	text, err := engine.Execute(src, data, ctx.engineEnv())
	if err != nil {
		return nil, err
	}

	out := Markup(text, theme, ctx)
	logger.Trace().
		Str("template", src.Name).
		Str("mode", mode.String()).
		Strs("unknown", out.Unknown).
		Msg("rendered")

	if ctx.Strict {
		if err := out.unknownError(); err != nil {
			return out, err.WithDetail("template", src.Name)
		}
	}
	return out, nil
}

// RenderString renders an inline full-engine template.
func RenderString(template string, data interface{}, theme *style.Theme, ctx Context) (*Output, error) {
	return Render(engine.Inline("inline", template), data, theme, ctx)
}

// Markup runs only the tag pass over already substituted text. Structured
// modes are treated as text.
func Markup(text string, theme *style.Theme, ctx Context) *Output {
	mode := ctx.ResolvedMode()
	if mode.IsStructured() {
		mode = ModeText
	}

	tags := lipbalm.New(activeTheme(theme, ctx), ctx.Profile)
	formatted := tags.Process(text, mode.Transform())
	raw := formatted
	if mode != ModeText {
		raw = tags.Process(text, lipbalm.Remove)
	}
	return &Output{Formatted: formatted.Text, Raw: raw.Text, Unknown: formatted.Unknown, Mode: mode}
}

// activeTheme specializes adaptive themes for the color mode, detected once
// per render.
func activeTheme(theme *style.Theme, ctx Context) *style.Theme {
	if theme == nil {
		return style.Empty()
	}
	if theme.IsAdaptive() {
		return theme.Variant(ctx.colorMode())
	}
	return theme
}

// ValidateTemplate reports the style names src can produce that theme does
// not define, without rendering. Literal markers, style calls with a literal
// name and included templates (looked up through includer, which may be nil)
// are checked. Names computed from data, as in "[{{ .Level }}]", are only
// known at render time. Syntax errors and missing includes are returned as
// errors.
func ValidateTemplate(src engine.Source, theme *style.Theme, includer engine.Includer) ([]string, error) {
	if err := engine.Check(src); err != nil {
		return nil, err
	}
	text, err := engine.StaticText(src, includer)
	if err != nil {
		return nil, err
	}
	return lipbalm.Unresolved(text, theme), nil
}
