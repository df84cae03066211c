/*
Package style holds the terminal presentation primitives outfit renders with.

An Attributes value is a concrete style: foreground and background Color plus
eight tri-valued boolean flags (bold, dim, italic, underline, blink, reverse,
hidden, strikethrough). Tri-valued means a child style can turn off what its
parent turned on:

	parent := style.Attributes{Bold: style.FlagOn}
	child := style.Attributes{Bold: style.FlagOff, Foreground: red}
	parent.Merge(child) // not bold, red

A Theme maps style names to Definitions. A definition is either an alias to
another name or attributes with optional light and dark overlays. NewTheme
rejects dangling aliases and alias cycles, so every name in a constructed
theme resolves:

	theme, err := style.NewTheme("default", map[string]style.Definition{
	    "error": style.Concrete(style.Attributes{Foreground: red, Bold: style.FlagOn}),
	    "fail":  style.AliasOf("error"),
	})
	attrs, ok := theme.Variant(style.DetectColorMode()).Resolve("fail")

Escape sequences are produced through termenv so colors degrade to what the
terminal profile supports. Every styled run is exactly one opener and one
Reset.
*/
package style
