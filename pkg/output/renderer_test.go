package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, opts Options) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	if opts.Writer == nil && opts.FilePath == "" {
		opts.Writer = &buf
	}
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, &buf
}

func TestRenderer_Modes(t *testing.T) {
	tests := []struct {
		name        string
		mode        render.OutputMode
		wantContent []string
		notWant     []string
	}{
		{
			name:        "auto on a buffer is plain text",
			mode:        render.ModeAuto,
			wantContent: []string{"✓ deployed"},
			notWant:     []string{"\x1b[", "[success]"},
		},
		{
			name:        "term applies styles",
			mode:        render.ModeTerm,
			wantContent: []string{"\x1b[", "deployed"},
			notWant:     []string{"[success]"},
		},
		{
			name:        "term-debug keeps markers",
			mode:        render.ModeTermDebug,
			wantContent: []string{"[success]✓ deployed[/success]"},
		},
		{
			name:        "json serializes the data",
			mode:        render.ModeJSON,
			wantContent: []string{`"level":"success"`, `"text":"deployed"`},
			notWant:     []string{"✓"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestRenderer(t, Options{Mode: tt.mode})
			require.NoError(t, r.RenderMessage("success", "deployed"))

			out := buf.String()
			for _, want := range tt.wantContent {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, out, notWant)
			}
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestRenderer_RenderError(t *testing.T) {
	r, buf := newTestRenderer(t, Options{Mode: render.ModeText})

	err := errors.New(errors.ErrTemplateNotFound, "template missing").WithDetail("template", "report")
	require.NoError(t, r.RenderError(err))
	assert.Equal(t, "✗ template missing\n  template: report\n", buf.String())

	r, buf = newTestRenderer(t, Options{Mode: render.ModeJSON})
	require.NoError(t, r.RenderError(err))
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "TEMPLATE_NOT_FOUND", report["code"])
}

func TestRenderer_ListAndKV(t *testing.T) {
	r, buf := newTestRenderer(t, Options{Mode: render.ModeText})

	require.NoError(t, r.RenderList("Packs", []string{"vim", "git"}))
	require.NoError(t, r.RenderKV(map[string]interface{}{"b": 2, "aa": 1}))
	assert.Equal(t, "Packs\n  → vim\n  → git\naa  1\nb   2\n", buf.String())
}

func TestRenderer_StrictAndUnknown(t *testing.T) {
	r, buf := newTestRenderer(t, Options{Mode: render.ModeTermDebug})
	require.NoError(t, r.RenderString("[ghost]boo[/ghost]", nil))
	assert.Equal(t, "[ghost?]boo[/ghost?]\n", buf.String())

	strict, _ := newTestRenderer(t, Options{Mode: render.ModeText, Strict: true})
	err := strict.RenderString("[ghost]boo[/ghost]", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownStyle))
}

func TestRenderer_ThemeSelection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loud.yaml"), []byte("shout: bold red\n"), 0o644))

	sheets, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{Dirs: []string{dir}})
	require.NoError(t, err)

	r, buf := newTestRenderer(t, Options{Mode: render.ModeTermDebug, Theme: "loud", Stylesheets: sheets})
	assert.True(t, r.Theme().Has("shout"))
	assert.True(t, r.Theme().Has("title"), "named themes extend the default theme")

	require.NoError(t, r.RenderString("[shout]hey[/shout] [title]t[/title]", nil))
	assert.Equal(t, "[shout]hey[/shout] [title]t[/title]\n", buf.String())

	_, err = NewRenderer(Options{Theme: "nope", Stylesheets: sheets, Writer: &bytes.Buffer{}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrThemeNotFound))
}

func TestRenderer_FilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.txt")

	r, err := NewRenderer(Options{Mode: render.ModeAuto, FilePath: path})
	require.NoError(t, err)
	assert.False(t, r.Context().Interactive)
	require.NoError(t, r.RenderMessage("info", "saved"))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ℹ saved\n", string(data))
}

func TestRenderer_ValuesAndInclude(t *testing.T) {
	templates, err := registry.NewTemplateRegistry(registry.TemplateConfig{NoDefaults: true})
	require.NoError(t, err)
	require.NoError(t, templates.AddTemplate("header", `== {{ ctx "app" }} ==`))
	require.NoError(t, templates.AddTemplate("page", `{{ include "header" }} {{ .Body }}`))

	r, buf := newTestRenderer(t, Options{
		Mode:      render.ModeText,
		Templates: templates,
		Values:    map[string]interface{}{"app": "outfit"},
		Width:     40,
	})
	assert.Equal(t, 40, r.Context().Width)

	require.NoError(t, r.Render("page", map[string]string{"Body": "hello"}))
	assert.Equal(t, "== outfit == hello\n", buf.String())

	err = r.Render("missing", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestRenderer_StylePreview(t *testing.T) {
	r, buf := newTestRenderer(t, Options{Mode: render.ModeTermDebug})
	require.NoError(t, r.StylePreview())
	assert.Contains(t, buf.String(), "[title]title[/title]\n")
	assert.Contains(t, buf.String(), "[error]error[/error] -> failure\n")
}

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: red\n"), 0o644))

	theme, err := LoadThemeFile(path)
	require.NoError(t, err)
	assert.True(t, theme.Has("a"))

	_, err = LoadThemeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}
