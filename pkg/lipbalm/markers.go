package lipbalm

import "github.com/arthur-debert/outfit/pkg/style"

// Marker is one recognized [name] or [/name] in a text.
type Marker struct {
	Name    string
	Closing bool
	Offset  int
	Raw     string
}

// scanMarker recognizes a marker at the start of s. Names are made of ASCII
// letters, digits, underscore and hyphen; anything else is literal text.
func scanMarker(s string) (Marker, bool) {
	if len(s) < 3 || s[0] != '[' {
		return Marker{}, false
	}
	i := 1
	closing := false
	if s[i] == '/' {
		closing = true
		i++
	}
	start := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == start || i >= len(s) || s[i] != ']' {
		return Marker{}, false
	}
	return Marker{Name: s[start:i], Closing: closing, Raw: s[:i+1]}, true
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}

// Markers lists every marker in input, in order.
func Markers(input string) []Marker {
	var out []Marker
	for i := 0; i < len(input); i++ {
		if input[i] != '[' {
			continue
		}
		if m, ok := scanMarker(input[i:]); ok {
			m.Offset = i
			out = append(out, m)
			i += len(m.Raw) - 1
		}
	}
	return out
}

// Segment is a piece of marked-up text: either a marker a pass consumes or
// literal text.
type Segment struct {
	Text   string
	Marker bool
}

// Split cuts input into markers and literal text the way a pass sees it. A
// closing marker with no matching open is literal. Concatenating the
// non-marker segments gives StripTags(input).
func Split(input string) []Segment {
	var (
		segs  []Segment
		stack []string
		last  int
	)
	literal := func(text string) {
		if text == "" {
			return
		}
		if n := len(segs); n > 0 && !segs[n-1].Marker {
			segs[n-1].Text += text
			return
		}
		segs = append(segs, Segment{Text: text})
	}

	for _, m := range Markers(input) {
		literal(input[last:m.Offset])
		last = m.Offset + len(m.Raw)
		if !m.Closing {
			stack = append(stack, m.Name)
			segs = append(segs, Segment{Text: m.Raw, Marker: true})
			continue
		}
		idx := -1
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i] == m.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			literal(m.Raw)
			continue
		}
		stack = stack[:idx]
		segs = append(segs, Segment{Text: m.Raw, Marker: true})
	}
	literal(input[last:])
	return segs
}

// Names returns the style names opened in input, each once, in order of
// first appearance.
func Names(input string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range Markers(input) {
		if m.Closing || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

// Unresolved returns the names opened in input that theme does not define.
// These are exactly the names a pass over input would report as unknown.
func Unresolved(input string, theme *style.Theme) []string {
	var unknown []string
	for _, name := range Names(input) {
		if _, ok := theme.Resolve(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
