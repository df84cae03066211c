/*
Package lipbalm expands inline style markers into terminal output.

Markers are square-bracketed style names wrapping text:

	[title]Report[/title] generated [muted]just now[/muted]

Names are made of letters, digits, underscore and hyphen. A "[" that does not
start a well-formed marker is plain text, so "a[i+1]" or "[not a tag]" pass
through untouched.

# Transforms

An Engine runs one pass over a text with one of three transforms:
  - Keep: the text is returned as written, for debugging templates
  - Remove: markers are dropped, for plain text and pipes
  - Apply: every literal run is wrapped in one ANSI opener and one reset

	theme := style.MustTheme("demo", map[string]style.Definition{
	    "title": style.Concrete(style.Attributes{Bold: style.FlagOn}),
	})
	res := lipbalm.New(theme, termenv.TrueColor).Process("[title]Hi[/title]", lipbalm.Apply)
	fmt.Println(res.Text) // "\x1b[1mHi\x1b[0m"

Nested markers compose: the inner run is styled with the outer attributes
merged with the inner ones.

# Mismatched and unknown markers

A closing marker pops the stack down to the nearest matching open, closing
anything opened after it. A closing marker with no matching open is literal
text.

Names the theme does not define still take part in nesting but carry no
attributes. Keep marks them as [name?]...[/name?], and every transform reports
them in Result.Unknown so callers can fail the render or log and carry on.

# Plain text output

	plain := lipbalm.StripTags("[title]Hello[/title] [date]2025[/date]") // "Hello 2025"

Unresolved checks a text against a theme without rendering it.
*/
package lipbalm
