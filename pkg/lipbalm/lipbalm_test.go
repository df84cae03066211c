package lipbalm_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/outfit/pkg/lipbalm"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/charmbracelet/x/ansi"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTheme(t *testing.T) *style.Theme {
	t.Helper()
	red, err := style.Named("red")
	require.NoError(t, err)
	blue, err := style.Named("blue")
	require.NoError(t, err)

	return style.MustTheme("test", map[string]style.Definition{
		"red":     style.Concrete(style.Attributes{Foreground: red}),
		"blue":    style.Concrete(style.Attributes{Foreground: blue}),
		"bold":    style.Concrete(style.Attributes{Bold: style.FlagOn}),
		"flat":    style.Concrete(style.Attributes{Bold: style.FlagOff}),
		"error":   style.AliasOf("red"),
		"nothing": style.Concrete(style.Attributes{}),
	})
}

func TestApply(t *testing.T) {
	engine := lipbalm.New(testTheme(t), termenv.TrueColor)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "compact run", input: "[red]text[/red]", expected: "\x1b[31mtext\x1b[0m"},
		{name: "nesting composes", input: "[bold][red]hi[/red][/bold]", expected: "\x1b[1;31mhi\x1b[0m"},
		{
			name:     "runs around nested marker",
			input:    "[bold]a[red]b[/red]c[/bold]",
			expected: "\x1b[1ma\x1b[0m\x1b[1;31mb\x1b[0m\x1b[1mc\x1b[0m",
		},
		{name: "inner color wins", input: "[red][blue]x[/blue][/red]", expected: "\x1b[34mx\x1b[0m"},
		{name: "child disables parent", input: "[bold][flat]x[/flat][/bold]", expected: "x"},
		{name: "alias resolves", input: "[error]boom[/error]", expected: "\x1b[31mboom\x1b[0m"},
		{name: "text outside markers", input: "a [red]b[/red] c", expected: "a \x1b[31mb\x1b[0m c"},
		{name: "empty style emits nothing", input: "[nothing]x[/nothing]", expected: "x"},
		{name: "empty content", input: "[red][/red]", expected: ""},
		{name: "unclosed open styles to end", input: "[red]tail", expected: "\x1b[31mtail\x1b[0m"},
		{name: "invalid marker is literal", input: "[red]a[0 1]b[/red]", expected: "\x1b[31ma[0 1]b\x1b[0m"},
		{name: "unmatched close is literal", input: "x[/red]y", expected: "x[/red]y"},
		{name: "multiline run", input: "[red]one\ntwo[/red]", expected: "\x1b[31mone\ntwo\x1b[0m"},
		{name: "plain text", input: "no markers here", expected: "no markers here"},
		{name: "empty input", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Process(tt.input, lipbalm.Apply)
			assert.Equal(t, tt.expected, res.Text)
			assert.Empty(t, res.Unknown)
		})
	}
}

func TestApplyCompactness(t *testing.T) {
	res := lipbalm.New(testTheme(t), termenv.TrueColor).Process("[red]"+strings.Repeat("text ", 200)+"[/red]", lipbalm.Apply)
	assert.True(t, strings.HasPrefix(res.Text, "\x1b[31m"))
	assert.True(t, strings.HasSuffix(res.Text, "\x1b[0m"))
	assert.Equal(t, 2, strings.Count(res.Text, "\x1b["))
}

func TestTolerantClose(t *testing.T) {
	engine := lipbalm.New(testTheme(t), termenv.TrueColor)

	// [/bold] closes the still open [red] as well.
	res := engine.Process("[bold]a[red]b[/bold]c", lipbalm.Apply)
	assert.Equal(t, "\x1b[1ma\x1b[0m\x1b[1;31mb\x1b[0mc", res.Text)

	res = engine.Process("[bold]a[red]b[/bold]c[/red]", lipbalm.Remove)
	assert.Equal(t, "abc[/red]", res.Text)

	res = engine.Process("[bold]a[red]b[/bold]c", lipbalm.Keep)
	assert.Equal(t, "[bold]a[red]b[/bold]c", res.Text)
}

func TestUnknownNames(t *testing.T) {
	empty := style.Empty()
	engine := lipbalm.New(empty, termenv.TrueColor)

	keep := engine.Process("[foo]x[/foo]", lipbalm.Keep)
	assert.Equal(t, "[foo?]x[/foo?]", keep.Text)
	assert.Equal(t, []string{"foo"}, keep.Unknown)

	remove := engine.Process("[foo]x[/foo]", lipbalm.Remove)
	assert.Equal(t, "x", remove.Text)
	assert.Equal(t, []string{"foo"}, remove.Unknown)

	apply := engine.Process("[foo]x[/foo] [foo]y[/foo] [bar]z[/bar]", lipbalm.Apply)
	assert.Equal(t, "x y z", apply.Text)
	assert.Equal(t, []string{"foo", "bar"}, apply.Unknown)
}

func TestUnknownInsideKnown(t *testing.T) {
	engine := lipbalm.New(testTheme(t), termenv.TrueColor)

	res := engine.Process("[red]a[mystery]b[/mystery][/red]", lipbalm.Apply)
	assert.Equal(t, "\x1b[31ma\x1b[0m\x1b[31mb\x1b[0m", res.Text)
	assert.Equal(t, []string{"mystery"}, res.Unknown)

	res = engine.Process("[red]a[mystery]b[/mystery][/red]", lipbalm.Keep)
	assert.Equal(t, "[red]a[mystery?]b[/mystery?][/red]", res.Text)
}

func TestAsciiProfile(t *testing.T) {
	res := lipbalm.New(testTheme(t), termenv.Ascii).Process("[red]a[/red][bold]b[/bold]", lipbalm.Apply)
	// Ascii keeps bold but drops colors.
	assert.Equal(t, "a\x1b[1mb\x1b[0m", res.Text)
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strips simple tags", input: "[bold]Hello[/bold] [italic]World[/italic]", expected: "Hello World"},
		{name: "strips nested tags", input: "[header][bold]Title[/bold] [italic]Sub[/italic][/header]", expected: "Title Sub"},
		{name: "preserves plain text", input: "Plain text without any tags", expected: "Plain text without any tags"},
		{name: "handles empty tags", input: "[empty][/empty]Text", expected: "Text"},
		{name: "preserves newlines", input: "[l1]First[/l1]\n[l2]Second[/l2]", expected: "First\nSecond"},
		{name: "keeps brackets that are not markers", input: "arr[i+1] and [a b]", expected: "arr[i+1] and [a b]"},
		{name: "keeps stray close", input: "end[/x]", expected: "end[/x]"},
		{name: "empty string", input: "", expected: ""},
		{name: "deeply nested tags", input: "[a][b][c][d]Deep[/d][/c][/b][/a]", expected: "Deep"},
		{name: "spaces in content", input: "[tag]  spaced  content  [/tag]", expected: "  spaced  content  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lipbalm.StripTags(tt.input))
		})
	}
}

func TestMarkers(t *testing.T) {
	markers := lipbalm.Markers("a[x]b[/x][0 1][y-z_1]")
	require.Len(t, markers, 3)
	assert.Equal(t, lipbalm.Marker{Name: "x", Offset: 1, Raw: "[x]"}, markers[0])
	assert.Equal(t, lipbalm.Marker{Name: "x", Closing: true, Offset: 5, Raw: "[/x]"}, markers[1])
	assert.Equal(t, "y-z_1", markers[2].Name)

	assert.Equal(t, []string{"x", "y-z_1"}, lipbalm.Names("a[x]b[/x][0 1][y-z_1][x]"))
}

func TestSplit(t *testing.T) {
	segs := lipbalm.Split("a[x]b[/y][/x]c[z]")
	assert.Equal(t, []lipbalm.Segment{
		{Text: "a"},
		{Text: "[x]", Marker: true},
		{Text: "b[/y]"},
		{Text: "[/x]", Marker: true},
		{Text: "c"},
		{Text: "[z]", Marker: true},
	}, segs)

	for _, input := range []string{"[red]a[/red] [ghost]b", "end[/x]", "arr[i+1]", ""} {
		var text strings.Builder
		for _, seg := range lipbalm.Split(input) {
			if !seg.Marker {
				text.WriteString(seg.Text)
			}
		}
		assert.Equal(t, lipbalm.StripTags(input), text.String(), input)
	}
}

func TestUnresolved(t *testing.T) {
	theme := testTheme(t)
	input := "[red]a[/red] [ghost]b[/ghost] [error]c[/error] [ghost]d[/ghost] [/orphan]"

	unknown := lipbalm.Unresolved(input, theme)
	assert.Equal(t, []string{"ghost"}, unknown)

	res := lipbalm.New(theme, termenv.TrueColor).Process(input, lipbalm.Remove)
	assert.Equal(t, unknown, res.Unknown)
}

func TestTransformString(t *testing.T) {
	assert.Equal(t, "keep", lipbalm.Keep.String())
	assert.Equal(t, "remove", lipbalm.Remove.String())
	assert.Equal(t, "apply", lipbalm.Apply.String())
}

var fragments = []string{
	"[red]", "[/red]", "[bold]", "[/bold]", "[blue]", "[/blue]", "[foo]", "[/foo]",
	"[error]", "[/error]", "text", "x y", "[", "]", "[/", "[0]", "\n", "日本",
}

func genMarkup() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1).Map(func(i int) string {
		return fragments[i]
	})).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})
}

func TestProperties(t *testing.T) {
	theme := testTheme(t)
	engine := lipbalm.New(theme, termenv.TrueColor)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("remove equals apply without escapes", prop.ForAll(
		func(input string) bool {
			applied := engine.Process(input, lipbalm.Apply).Text
			removed := engine.Process(input, lipbalm.Remove).Text
			return ansi.Strip(applied) == removed
		},
		genMarkup(),
	))

	properties.Property("one opener and one closer per run", prop.ForAll(
		func(body string) bool {
			out := engine.Process("[red]"+body+"[/red]", lipbalm.Apply).Text
			return strings.Count(out, "\x1b[") <= 2
		},
		gen.AlphaString(),
	))

	properties.Property("unknown names match validation", prop.ForAll(
		func(input string) bool {
			got := engine.Process(input, lipbalm.Keep).Unknown
			want := lipbalm.Unresolved(input, theme)
			return strings.Join(got, ",") == strings.Join(want, ",")
		},
		genMarkup(),
	))

	properties.Property("keep without unknowns is identity", prop.ForAll(
		func(input string) bool {
			res := engine.Process(input, lipbalm.Keep)
			return len(res.Unknown) > 0 || res.Text == input
		},
		genMarkup(),
	))

	properties.TestingRun(t)
}
