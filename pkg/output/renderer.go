package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/arthur-debert/outfit/pkg/style"
)

// Options configures a Renderer. Zero values pick sensible defaults:
// auto mode, stdout, the default theme, fresh registries.
type Options struct {
	Mode render.OutputMode
	// Writer is the sink. Ignored when FilePath is set.
	Writer io.Writer
	// FilePath redirects output to a file. Terminal detection is off, so
	// auto mode renders plain text.
	FilePath string
	// Theme names a theme in Stylesheets. It extends the default theme.
	Theme string
	// Width overrides the detected terminal width.
	Width int
	// Strict fails renders that use unknown style names.
	Strict bool

	Templates   *registry.TemplateRegistry
	Stylesheets *registry.StylesheetRegistry
	// Values are available to templates through ctx "key".
	Values map[string]interface{}
}

// Renderer binds registries, a theme and a sink. It renders named
// templates with command data and writes the result.
//
// The rendering process:
//  1. Look up the template in the registry
//  2. Run the two-pass pipeline for the output mode (see package render)
//  3. Write Formatted to the sink, ending it with a newline
//
// A Renderer is meant for one command invocation and is not safe for
// concurrent use.
type Renderer struct {
	templates   *registry.TemplateRegistry
	stylesheets *registry.StylesheetRegistry
	theme       *style.Theme
	ctx         render.Context
	writer      io.Writer
	closer      io.Closer
}

// NewRenderer creates a Renderer. Construction errors (bad stylesheets,
// unknown theme, unwritable file) are returned here, before any render.
func NewRenderer(opts Options) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	r := &Renderer{templates: opts.Templates, stylesheets: opts.Stylesheets}
	var err error
	if r.templates == nil {
		if r.templates, err = registry.NewTemplateRegistry(registry.TemplateConfig{}); err != nil {
			return nil, err
		}
	}
	if r.stylesheets == nil {
		if r.stylesheets, err = registry.NewStylesheetRegistry(registry.StylesheetConfig{}); err != nil {
			return nil, err
		}
	}
	if r.theme, err = ResolveTheme(r.stylesheets, opts.Theme); err != nil {
		return nil, err
	}

	r.writer = opts.Writer
	if opts.FilePath != "" {
		f, err := openSink(opts.FilePath)
		if err != nil {
			return nil, err
		}
		r.writer, r.closer = f, f
	}
	if r.writer == nil {
		r.writer = os.Stdout
	}

	r.ctx = render.NewContext(opts.Mode, r.writer)
	if opts.Width > 0 {
		r.ctx.Width = opts.Width
	}
	r.ctx.Strict = opts.Strict
	r.ctx.Includer = r.templates
	for k, v := range opts.Values {
		r.ctx = r.ctx.WithValue(k, v)
	}

	log.Debug().
		Str("mode", r.ctx.ResolvedMode().String()).
		Bool("interactive", r.ctx.Interactive).
		Str("theme", r.theme.Name()).
		Str("file", opts.FilePath).
		Int("width", r.ctx.Width).
		Msg("Renderer created")
	return r, nil
}

func openSink(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "cannot create directory for %s", path).
				WithDetail("path", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot open output file %s", path).
			WithDetail("path", path)
	}
	return f, nil
}

// Context returns a copy of the render context.
func (r *Renderer) Context() render.Context {
	return r.ctx
}

// Theme returns the active theme.
func (r *Renderer) Theme() *style.Theme {
	return r.theme
}

// Templates returns the template registry.
func (r *Renderer) Templates() *registry.TemplateRegistry {
	return r.templates
}

// Stylesheets returns the stylesheet registry.
func (r *Renderer) Stylesheets() *registry.StylesheetRegistry {
	return r.stylesheets
}

// Execute renders the named template without writing it.
func (r *Renderer) Execute(name string, data interface{}) (*render.Output, error) {
	done := logging.LogOperationStart(logging.GetLogger("output.Renderer"), "render "+name)
	defer done()

	src, err := r.templates.Get(name)
	if err != nil {
		return nil, err
	}
	out, err := render.Render(src, data, r.theme, r.ctx)
	r.logUnknown(name, out)
	return out, err
}

// Render renders the named template with data and writes the result.
func (r *Renderer) Render(name string, data interface{}) error {
	out, err := r.Execute(name, data)
	if err != nil {
		return err
	}
	return r.write(out)
}

// RenderString renders an inline template and writes the result.
func (r *Renderer) RenderString(template string, data interface{}) error {
	done := logging.LogOperationStart(logging.GetLogger("output.Renderer"), "render inline")
	defer done()

	out, err := render.RenderString(template, data, r.theme, r.ctx)
	r.logUnknown("inline", out)
	if err != nil {
		return err
	}
	return r.write(out)
}

// Message is the data outfit/message renders.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// RenderMessage writes a one-line message. level is one of success,
// failure, warning, info or pending and picks both style and icon.
func (r *Renderer) RenderMessage(level, text string) error {
	return r.Render("outfit/message", Message{Level: level, Text: text})
}

// ErrorReport is the data outfit/error renders.
type ErrorReport struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError writes err, with the code and details of a coded error.
// The code prefix is dropped from the message since "[CODE]" reads as a
// style marker.
func (r *Renderer) RenderError(err error) error {
	report := ErrorReport{Message: err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		report.Code = string(code)
		report.Message = strings.TrimPrefix(report.Message, "["+string(code)+"] ")
		report.Details = errors.GetErrorDetails(err)
	}
	return r.Render("outfit/error", report)
}

// List is the data outfit/list renders.
type List struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items"`
}

// RenderList writes a titled bullet list.
func (r *Renderer) RenderList(title string, items []string) error {
	return r.Render("outfit/list", List{Title: title, Items: items})
}

// KV is the data outfit/kv renders.
type KV struct {
	Pairs map[string]interface{} `json:"pairs"`
}

// RenderKV writes aligned key/value pairs, sorted by key.
func (r *Renderer) RenderKV(pairs map[string]interface{}) error {
	return r.Render("outfit/kv", KV{Pairs: pairs})
}

func (r *Renderer) write(out *render.Output) error {
	text := out.Formatted
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(r.writer, text); err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to write output")
	}
	return nil
}

func (r *Renderer) logUnknown(name string, out *render.Output) {
	if out == nil || len(out.Unknown) == 0 {
		return
	}
	logger := logging.GetLogger("output.Renderer")
	logger.Warn().
		Str("template", name).
		Strs("unknown", out.Unknown).
		Msg("unknown style names")
}

// Close closes the output file, if one was opened.
func (r *Renderer) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to close output file")
	}
	return nil
}

// StylePreview renders every style of the active theme applied to its
// own name, one per line, sorted.
func (r *Renderer) StylePreview() error {
	names := r.theme.Names()
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		def, _ := r.theme.Definition(name)
		note := ""
		if def.IsAlias() {
			note = fmt.Sprintf(" -> %s", def.Alias)
		}
		fmt.Fprintf(&b, "[%s]%s[/%s]%s\n", name, name, name, note)
	}
	out := render.Markup(b.String(), r.theme, r.ctx)
	return r.write(out)
}
