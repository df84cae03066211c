package registry_test

import (
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylesheetRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ocean.yaml", "title: bold blue\n")
	writeFile(t, dir, "teams/forest.yml", "title: green\n")

	reg, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{
		Embedded: []registry.Root{{Label: "embed", FS: fstest.MapFS{
			"mono.yaml": file("title: bold\n"),
		}}},
		Dirs: []string{dir},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "mono", "ocean", "teams/forest"}, reg.Names())

	ocean, err := reg.Get("ocean")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1;34mx\x1b[0m", resolve(t, ocean, "title"))

	writeFile(t, dir, "ocean.yaml", "title: red\n")
	ocean, err = reg.Get("ocean")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[31mx\x1b[0m", resolve(t, ocean, "title"), "directory themes are re-read")

	def, err := reg.Get(registry.DefaultTheme)
	require.NoError(t, err)
	for _, name := range []string{"title", "muted", "key", "bullet", "success", "failure", "error", "warning", "info", "pending"} {
		assert.True(t, def.Has(name), name)
	}

	_, err = reg.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrThemeNotFound))

	require.NoError(t, reg.Add(style.MustTheme("ocean", map[string]style.Definition{
		"title": style.Concrete(style.Attributes{Bold: style.FlagOn}),
	})))
	ocean, err = reg.Get("ocean")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1mx\x1b[0m", resolve(t, ocean, "title"), "added themes shadow files")
}

func TestStylesheetsAliasDefaultStyles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", "fatal: error\nheading: title\ntitle: magenta\n")

	reg, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{Dirs: []string{dir}})
	require.NoError(t, err)

	app, err := reg.Get("app")
	require.NoError(t, err)
	def, err := reg.Get(registry.DefaultTheme)
	require.NoError(t, err)

	assert.Equal(t, resolve(t, def, "error"), resolve(t, app, "fatal"))
	assert.Equal(t, "\x1b[35mx\x1b[0m", resolve(t, app, "heading"), "aliases see the sheet's own overrides")
	assert.True(t, app.Has("muted"), "stylesheets extend the default theme")

	_, err = registry.NewStylesheetRegistry(registry.StylesheetConfig{
		NoDefaults: true,
		Embedded:   []registry.Root{{Label: "embed", FS: fstest.MapFS{"app.yaml": file("fatal: error\n")}}},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownAttribute), "without defaults there is nothing to alias")
}

func TestStylesheetRegistryErrors(t *testing.T) {
	bad := registry.Root{Label: "embed", FS: fstest.MapFS{"broken.yaml": file("title: no-such-thing\n")}}
	_, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{Embedded: []registry.Root{bad}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownAttribute))
	assert.Equal(t, "embed/broken.yaml", errors.GetErrorDetails(err)["path"])

	cycle := registry.Root{Label: "embed", FS: fstest.MapFS{"loop.yaml": file("a: b\nb: a\n")}}
	_, err = registry.NewStylesheetRegistry(registry.StylesheetConfig{Embedded: []registry.Root{cycle}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAliasCycle))

	one := registry.Root{Label: "one", FS: fstest.MapFS{"x.yaml": file("a: red\n")}}
	two := registry.Root{Label: "two", FS: fstest.MapFS{"x.yml": file("a: blue\n")}}
	_, err = registry.NewStylesheetRegistry(registry.StylesheetConfig{Embedded: []registry.Root{one, two}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameCollision))

	err = (&registry.StylesheetRegistry{}).Add(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDefaultTemplatesRender(t *testing.T) {
	templates, err := registry.NewTemplateRegistry(registry.TemplateConfig{})
	require.NoError(t, err)
	themes, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{})
	require.NoError(t, err)
	theme, err := themes.Get(registry.DefaultTheme)
	require.NoError(t, err)

	ctx := render.Context{Mode: render.ModeText, Width: 80, Includer: templates}

	tests := []struct {
		name     string
		data     interface{}
		expected string
	}{
		{
			name:     "outfit/message",
			data:     map[string]interface{}{"Level": "success", "Text": "done"},
			expected: "✓ done\n",
		},
		{
			name:     "outfit/list",
			data:     map[string]interface{}{"Title": "Packs", "Items": []string{"vim", "git"}},
			expected: "Packs\n  → vim\n  → git\n",
		},
		{
			name:     "outfit/kv",
			data:     map[string]interface{}{"Pairs": map[string]interface{}{"name": "outfit", "id": 7}},
			expected: "id    7\nname  outfit\n",
		},
		{
			name:     "outfit/error",
			data:     map[string]interface{}{"Message": "boom", "Details": map[string]string{"path": "/tmp"}},
			expected: "✗ boom\n  path: /tmp\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := templates.Get(tt.name)
			require.NoError(t, err)
			out, err := render.Render(src, tt.data, theme, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Formatted)
			assert.Empty(t, out.Unknown)
		})
	}
}

func resolve(t *testing.T, theme *style.Theme, name string) string {
	t.Helper()
	attrs, ok := theme.Resolve(name)
	require.True(t, ok)
	return attrs.Render("x", termenv.TrueColor)
}
