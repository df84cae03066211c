/*
Package render is outfit's two-pass pipeline.

Render takes a template source, the data a command produced, a theme and a
Context, and returns an Output:

	ctx := render.NewContext(render.ModeAuto, os.Stdout)
	out, err := render.Render(engine.Inline("hello", "[title]{{ .Name }}[/title]"), data, theme, ctx)
	fmt.Fprint(os.Stdout, out.Formatted)

# Passes

The first pass binds data to the template (see package engine). The second
pass hands the result to the tag engine (package lipbalm) with a transform
picked by the mode:

	term        Apply: ANSI styling
	text        Remove: plain text
	term-debug  Keep: markers left visible, unknown names marked [name?]

Output.Raw always carries the plain text form, whatever the mode.

# Structured modes

json, yaml, xml and csv never run the template. The data is serialized as is,
so the same command feeds both humans and scripts. CSV flattens nested
objects into dotted columns and writes nested arrays as JSON cells.

# Unknown styles

Style names missing from the theme are collected per render in
Output.Unknown. They are not an error unless Context.Strict is set; callers
that want to decide later use Output.Err.
*/
package render
