// Package engine runs the first render pass: it binds data to a template and
// produces marked-up text for the tag pass.
//
// Two engines exist. The full engine is Go's text/template with the sprig
// function library and outfit's layout helpers. The simple engine only
// substitutes {var.sub} references, which keeps small message templates free
// of template syntax.
package engine

import (
	"path"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/icons"
)

// Kind selects the engine a template is run with.
type Kind int

const (
	// Full is text/template with helpers.
	Full Kind = iota
	// Simple is {var.sub} substitution.
	Simple
)

// String returns the string representation of the kind
func (k Kind) String() string {
	if k == Simple {
		return "simple"
	}
	return "full"
}

// Extensions lists template file extensions in lookup priority order.
var Extensions = []string{".jinja", ".jinja2", ".j2", ".stpl", ".txt"}

// KindForExtension maps a file extension to its engine.
func KindForExtension(ext string) (Kind, bool) {
	switch strings.ToLower(ext) {
	case ".jinja", ".jinja2", ".j2", ".txt":
		return Full, true
	case ".stpl":
		return Simple, true
	default:
		return Full, false
	}
}

// KindForName picks the engine from a file name, defaulting to Full.
func KindForName(name string) Kind {
	k, _ := KindForExtension(path.Ext(name))
	return k
}

// Source is one resolved template.
type Source struct {
	Name    string
	Content []byte
	Kind    Kind
}

// NewSource builds a source whose kind comes from name's extension.
func NewSource(name string, content []byte) Source {
	return Source{Name: name, Content: content, Kind: KindForName(name)}
}

// Inline builds a full-engine source from a string.
func Inline(name, content string) Source {
	return Source{Name: name, Content: []byte(content), Kind: Full}
}

// Includer resolves template names for the include helper.
type Includer interface {
	Lookup(name string) (Source, error)
}

// Env is the per-render state helpers read.
type Env struct {
	// Width is the terminal width reported by term_width.
	Width int
	// Icons selects the glyph variant for the icon helper.
	Icons icons.Mode
	// Context holds values templates fetch with ctx "key".
	Context map[string]interface{}
	// Includer serves the include helper. Nil disables includes.
	Includer Includer
}

// MaxIncludeDepth bounds nested includes.
const MaxIncludeDepth = 16

// Execute runs src against data with the engine src.Kind names.
func Execute(src Source, data interface{}, env Env) (string, error) {
	return execute(src, data, env, 0)
}

func execute(src Source, data interface{}, env Env, depth int) (string, error) {
	if depth > MaxIncludeDepth {
		return "", errors.Newf(errors.ErrTemplateExec, "include depth exceeds %d at %q", MaxIncludeDepth, src.Name).
			WithDetail("template", src.Name)
	}
	switch src.Kind {
	case Simple:
		return executeSimple(src, data)
	default:
		return executeFull(src, data, env, depth)
	}
}

// Check parses src without executing it and reports syntax errors.
func Check(src Source) error {
	if src.Kind == Simple {
		return checkSimple(src)
	}
	_, err := parseFull(src, funcMap(Env{}, 0))
	return err
}
