package render

import (
	"io"
	"os"

	"github.com/arthur-debert/outfit/pkg/engine"
	"github.com/arthur-debert/outfit/pkg/icons"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/muesli/termenv"
)

// Context is the per-call render state. It is a value: copy and adjust it
// rather than sharing one across goroutines that modify it.
type Context struct {
	Mode OutputMode
	// Interactive is whether the sink is a terminal; it decides ModeAuto and
	// JSON indentation.
	Interactive bool
	Width       int
	// Profile caps the colors ModeTerm emits.
	Profile termenv.Profile
	// ColorMode overrides the process detector when set.
	ColorMode *style.ColorMode
	Icons     icons.Mode
	// Values are handed to templates through ctx "key".
	Values map[string]interface{}
	// Includer serves the include helper.
	Includer engine.Includer
	// Strict turns unknown style names into a render error.
	Strict bool
}

// NewContext returns a context for writing to w. Terminal detection only
// applies when w is an *os.File.
func NewContext(mode OutputMode, w io.Writer) Context {
	f, _ := w.(*os.File)
	ctx := Context{
		Mode:        mode,
		Interactive: IsInteractive(f),
		Width:       DetectWidth(f),
		Profile:     termenv.Ascii,
		Icons:       icons.DetectMode(),
	}
	if ctx.Interactive {
		ctx.Profile = termenv.EnvColorProfile()
	}
	if mode == ModeTerm && !ctx.Interactive {
		// Forced styling on a pipe still gets colors.
		ctx.Profile = termenv.ANSI256
	}
	return ctx
}

// WithValue returns a copy of c with key set for ctx lookups.
func (c Context) WithValue(key string, value interface{}) Context {
	values := make(map[string]interface{}, len(c.Values)+1)
	for k, v := range c.Values {
		values[k] = v
	}
	values[key] = value
	c.Values = values
	return c
}

// ResolvedMode returns the concrete mode this context renders in.
func (c Context) ResolvedMode() OutputMode {
	return c.Mode.Resolve(c.Interactive)
}

// colorMode returns the override or asks the process-wide detector.
func (c Context) colorMode() style.ColorMode {
	if c.ColorMode != nil {
		return *c.ColorMode
	}
	return style.DetectColorMode()
}

func (c Context) engineEnv() engine.Env {
	width := c.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return engine.Env{
		Width:    width,
		Icons:    c.Icons,
		Context:  c.Values,
		Includer: c.Includer,
	}
}
