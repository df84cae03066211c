// Package columns holds the width-aware text helpers templates use to lay out
// fixed-width output. Widths are terminal display columns: wide CJK
// characters count as two while ANSI escape sequences and style markers
// count as zero.
package columns

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/outfit/pkg/lipbalm"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is the default truncation marker.
const Ellipsis = "…"

// Align is the horizontal placement of text inside a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// String returns the string representation of the alignment
func (a Align) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// ParseAlign accepts left, right and center (and their first letter).
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left", "l":
		return AlignLeft, nil
	case "right", "r":
		return AlignRight, nil
	case "center", "centre", "c":
		return AlignCenter, nil
	default:
		return AlignLeft, fmt.Errorf("invalid alignment %q: must be left, right or center", s)
	}
}

// Truncation is where text is cut when it does not fit.
type Truncation int

const (
	TruncateEnd Truncation = iota
	TruncateStart
	TruncateMiddle
)

// String returns the string representation of the truncation point
func (t Truncation) String() string {
	switch t {
	case TruncateStart:
		return "start"
	case TruncateMiddle:
		return "middle"
	default:
		return "end"
	}
}

// ParseTruncation accepts end, start and middle.
func ParseTruncation(s string) (Truncation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end", "right":
		return TruncateEnd, nil
	case "start", "left":
		return TruncateStart, nil
	case "middle", "center":
		return TruncateMiddle, nil
	default:
		return TruncateEnd, fmt.Errorf("invalid truncation %q: must be end, start or middle", s)
	}
}

// DisplayWidth returns the number of terminal columns s occupies once
// rendered. Style markers count as zero, like escape sequences.
func DisplayWidth(s string) int {
	w := 0
	for _, seg := range lipbalm.Split(s) {
		if !seg.Marker {
			w += ansi.StringWidth(seg.Text)
		}
	}
	return w
}

// PadLeft right-aligns s in width columns.
func PadLeft(s string, width int) string {
	return Pad(s, width, AlignRight)
}

// PadRight left-aligns s in width columns.
func PadRight(s string, width int) string {
	return Pad(s, width, AlignLeft)
}

// PadCenter centers s in width columns; an odd remainder goes to the right.
func PadCenter(s string, width int) string {
	return Pad(s, width, AlignCenter)
}

// Pad aligns s in width columns. Text wider than width is returned as is.
func Pad(s string, width int, align Align) string {
	gap := width - DisplayWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// TruncateAt shortens s to at most width columns, replacing the cut part
// with ellipsis. Text that already fits is returned unchanged. Style markers
// are all kept, so the result stays as balanced as s.
func TruncateAt(s string, width int, where Truncation, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	sw := DisplayWidth(s)
	if sw <= width {
		return s
	}
	ew := ansi.StringWidth(ellipsis)
	if ew >= width {
		return excise(s, width, sw, "")
	}

	keep := width - ew
	switch where {
	case TruncateStart:
		return excise(s, 0, sw-keep, ellipsis)
	case TruncateMiddle:
		left := (keep + 1) / 2
		return excise(s, left, sw-(keep-left), ellipsis)
	default:
		return excise(s, keep, sw, ellipsis)
	}
}

// excise drops the visible columns [from, to) of s and puts replacement
// where the cut starts. Markers are never dropped.
func excise(s string, from, to int, replacement string) string {
	var b strings.Builder
	inserted := false
	pos := 0
	for _, seg := range lipbalm.Split(s) {
		if seg.Marker {
			b.WriteString(seg.Text)
			continue
		}
		w := ansi.StringWidth(seg.Text)
		lo, hi := max(from, pos), min(to, pos+w)
		if lo >= hi {
			b.WriteString(seg.Text)
			pos += w
			continue
		}
		b.WriteString(cells(seg.Text, 0, lo-pos))
		if !inserted {
			b.WriteString(replacement)
			inserted = true
		}
		b.WriteString(cells(seg.Text, hi-pos, w))
		pos += w
	}
	if !inserted {
		b.WriteString(replacement)
	}
	return b.String()
}

// cells returns the columns [from, to) of a marker-free string.
func cells(s string, from, to int) string {
	if from >= to {
		return ""
	}
	return ansi.TruncateLeft(ansi.Truncate(s, to, ""), from, "")
}

// Fit makes s exactly width columns wide: truncated at the end when too
// long, padded according to align when too short.
func Fit(s string, width int, align Align, where Truncation) string {
	return Pad(TruncateAt(s, width, where, Ellipsis), width, align)
}
