package style

import (
	"strings"

	"github.com/muesli/termenv"
)

// Flag is a tri-valued boolean attribute. A child style uses FlagOff to
// explicitly disable something its parent turned on.
type Flag int8

const (
	FlagUnset Flag = iota
	FlagOn
	FlagOff
)

// FlagFrom converts a bool into a set flag.
func FlagFrom(b bool) Flag {
	if b {
		return FlagOn
	}
	return FlagOff
}

// IsOn reports whether the flag is explicitly on.
func (f Flag) IsOn() bool { return f == FlagOn }

// merge returns child when it is set, otherwise parent.
func (f Flag) merge(child Flag) Flag {
	if child != FlagUnset {
		return child
	}
	return f
}

// Reset is the SGR sequence closing every styled run.
const Reset = termenv.CSI + termenv.ResetSeq + "m"

// Attributes is a concrete terminal style.
type Attributes struct {
	Foreground    Color
	Background    Color
	Bold          Flag
	Dim           Flag
	Italic        Flag
	Underline     Flag
	Blink         Flag
	Reverse       Flag
	Hidden        Flag
	Strikethrough Flag
}

// attributeKeywords lists the boolean attribute names in SGR order.
var attributeKeywords = []struct {
	name string
	sgr  string
	get  func(*Attributes) *Flag
}{
	{"bold", "1", func(a *Attributes) *Flag { return &a.Bold }},
	{"dim", "2", func(a *Attributes) *Flag { return &a.Dim }},
	{"italic", "3", func(a *Attributes) *Flag { return &a.Italic }},
	{"underline", "4", func(a *Attributes) *Flag { return &a.Underline }},
	{"blink", "5", func(a *Attributes) *Flag { return &a.Blink }},
	{"reverse", "7", func(a *Attributes) *Flag { return &a.Reverse }},
	{"hidden", "8", func(a *Attributes) *Flag { return &a.Hidden }},
	{"strikethrough", "9", func(a *Attributes) *Flag { return &a.Strikethrough }},
}

// IsAttributeName reports whether name is a boolean attribute keyword.
func IsAttributeName(name string) bool {
	for _, kw := range attributeKeywords {
		if kw.name == name {
			return true
		}
	}
	return false
}

// AttributeNames returns the boolean attribute keywords.
func AttributeNames() []string {
	names := make([]string, len(attributeKeywords))
	for i, kw := range attributeKeywords {
		names[i] = kw.name
	}
	return names
}

// SetFlag sets the named boolean attribute. It returns false for unknown names.
func (a *Attributes) SetFlag(name string, f Flag) bool {
	for _, kw := range attributeKeywords {
		if kw.name == name {
			*kw.get(a) = f
			return true
		}
	}
	return false
}

// Flag returns the value of the named boolean attribute.
func (a Attributes) Flag(name string) Flag {
	for _, kw := range attributeKeywords {
		if kw.name == name {
			return *kw.get(&a)
		}
	}
	return FlagUnset
}

// Merge overlays child on a. Unset child fields keep a's value; set fields
// (colors included) replace it.
func (a Attributes) Merge(child Attributes) Attributes {
	out := a
	if child.Foreground.IsSet() {
		out.Foreground = child.Foreground
	}
	if child.Background.IsSet() {
		out.Background = child.Background
	}
	for _, kw := range attributeKeywords {
		dst := kw.get(&out)
		*dst = dst.merge(*kw.get(&child))
	}
	return out
}

// IsZero reports whether no field is set.
func (a Attributes) IsZero() bool {
	return a == Attributes{}
}

// SGR returns the semicolon-joined SGR parameters for the attributes, or ""
// when nothing would be emitted.
func (a Attributes) SGR(profile termenv.Profile) string {
	params := make([]string, 0, 4)
	for _, kw := range attributeKeywords {
		if kw.get(&a).IsOn() {
			params = append(params, kw.sgr)
		}
	}
	if seq := a.Foreground.Sequence(profile, false); seq != "" {
		params = append(params, seq)
	}
	if seq := a.Background.Sequence(profile, true); seq != "" {
		params = append(params, seq)
	}
	return strings.Join(params, ";")
}

// Open returns the escape sequence opening a run styled with a, or "".
func (a Attributes) Open(profile termenv.Profile) string {
	sgr := a.SGR(profile)
	if sgr == "" {
		return ""
	}
	return termenv.CSI + sgr + "m"
}

// Render wraps text in exactly one opener and one reset. Empty text and
// attributes producing no sequence return text unchanged.
func (a Attributes) Render(text string, profile termenv.Profile) string {
	if text == "" {
		return text
	}
	open := a.Open(profile)
	if open == "" {
		return text
	}
	return open + text + Reset
}

// String describes the attributes in stylesheet shorthand form.
func (a Attributes) String() string {
	var parts []string
	if a.Foreground.IsSet() {
		parts = append(parts, a.Foreground.String())
	}
	if a.Background.IsSet() {
		parts = append(parts, "on "+a.Background.String())
	}
	for _, kw := range attributeKeywords {
		switch *kw.get(&a) {
		case FlagOn:
			parts = append(parts, kw.name)
		case FlagOff:
			parts = append(parts, "no-"+kw.name)
		}
	}
	return strings.Join(parts, " ")
}
