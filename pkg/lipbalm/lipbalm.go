package lipbalm

import (
	"strings"

	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/muesli/termenv"
)

// Transform selects what the engine does with markers.
type Transform int

const (
	// Keep emits the source verbatim, unknown names marked with "?".
	Keep Transform = iota
	// Remove drops every marker and keeps the literal text.
	Remove
	// Apply wraps literal runs in ANSI sequences.
	Apply
)

// String returns the string representation of the transform
func (t Transform) String() string {
	switch t {
	case Keep:
		return "keep"
	case Remove:
		return "remove"
	case Apply:
		return "apply"
	default:
		return "unknown"
	}
}

// Result is the output of one pass over marked-up text.
type Result struct {
	Text string
	// Unknown lists the style names that did not resolve, in order of first
	// appearance, each once.
	Unknown []string
}

// Engine expands markers against a theme. A nil theme treats every name as
// unknown. Engines are read-only and may be shared.
type Engine struct {
	theme   *style.Theme
	profile termenv.Profile
}

// New returns an engine resolving names in theme and emitting sequences for
// profile. The theme should already be specialized with Variant.
func New(theme *style.Theme, profile termenv.Profile) *Engine {
	return &Engine{theme: theme, profile: profile}
}

// StripTags removes all markers, keeping literal text. Unmatched closing
// markers stay, exactly as in a Remove pass.
func StripTags(input string) string {
	return New(nil, termenv.Ascii).Process(input, Remove).Text
}

// Process runs one pass over input with the given transform.
func (e *Engine) Process(input string, transform Transform) Result {
	p := &pass{engine: e, transform: transform}
	p.out.Grow(len(input) + len(input)/4)

	for i := 0; i < len(input); {
		if input[i] != '[' {
			next := strings.IndexByte(input[i:], '[')
			if next < 0 {
				next = len(input) - i
			}
			p.run.WriteString(input[i : i+next])
			i += next
			continue
		}
		m, ok := scanMarker(input[i:])
		if !ok {
			p.run.WriteByte('[')
			i++
			continue
		}
		if m.Closing {
			p.close(m)
		} else {
			p.open(m)
		}
		i += len(m.Raw)
	}
	p.flush()

	if len(p.unknown) > 0 {
		logger := logging.GetLogger("lipbalm")
		logger.Trace().
			Strs("unknown", p.unknown).
			Str("transform", transform.String()).
			Msg("unresolved style names")
	}
	return Result{Text: p.out.String(), Unknown: p.unknown}
}

type frame struct {
	name     string
	known    bool
	composed style.Attributes
}

// pass holds the per-call state: the style stack, the pending literal run
// and the unknown names seen so far.
type pass struct {
	engine    *Engine
	transform Transform
	stack     []frame
	run       strings.Builder
	out       strings.Builder
	unknown   []string
	seen      map[string]bool
}

func (p *pass) noteUnknown(name string) {
	if p.seen == nil {
		p.seen = make(map[string]bool)
	}
	if !p.seen[name] {
		p.seen[name] = true
		p.unknown = append(p.unknown, name)
	}
}

// flush writes the pending literal run: one opener and one reset around the
// whole run when applying.
func (p *pass) flush() {
	if p.run.Len() == 0 {
		return
	}
	text := p.run.String()
	p.run.Reset()

	if p.transform == Apply && len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1].composed
		if open := top.Open(p.engine.profile); open != "" {
			p.out.WriteString(open)
			p.out.WriteString(text)
			p.out.WriteString(style.Reset)
			return
		}
	}
	p.out.WriteString(text)
}

func (p *pass) open(m Marker) {
	attrs, known := p.engine.theme.Resolve(m.Name)
	if !known {
		p.noteUnknown(m.Name)
	}

	p.flush()
	if p.transform == Keep {
		if known {
			p.out.WriteString(m.Raw)
		} else {
			p.out.WriteString("[" + m.Name + "?]")
		}
	}

	var parent style.Attributes
	if len(p.stack) > 0 {
		parent = p.stack[len(p.stack)-1].composed
	}
	p.stack = append(p.stack, frame{name: m.Name, known: known, composed: parent.Merge(attrs)})
}

// close pops up to and including the nearest frame named m.Name. Frames
// above it are closed implicitly. Without a match the marker is literal.
func (p *pass) close(m Marker) {
	idx := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].name == m.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.run.WriteString(m.Raw)
		return
	}

	p.flush()
	if p.transform == Keep {
		if p.stack[idx].known {
			p.out.WriteString(m.Raw)
		} else {
			p.out.WriteString("[/" + m.Name + "?]")
		}
	}
	p.stack = p.stack[:idx]
}
