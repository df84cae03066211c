package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG locations at empty temp dirs.
func isolate(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir, dataDir = t.TempDir(), t.TempDir()
	t.Setenv("OUTFIT_CONFIG_DIR", configDir)
	t.Setenv("OUTFIT_DATA_DIR", dataDir)
	return configDir, dataDir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Output.Mode)
	assert.Equal(t, render.ModeAuto, cfg.OutputMode())
	assert.Equal(t, 0, cfg.Output.Width)
	assert.False(t, cfg.Output.Strict)
	assert.Empty(t, cfg.Templates.Dirs)
	assert.True(t, cfg.Templates.UserDir)
	assert.Equal(t, "default", cfg.Stylesheets.Theme)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Contains(t, DefaultContent(), "output:")
}

func TestLoadLayers(t *testing.T) {
	configDir, _ := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(`
output:
  mode: json
  width: 100
templates:
  dirs: [/srv/user-templates]
`), 0o644))

	explicit := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(explicit, []byte(`
watch = true

[templates]
dirs = ["/srv/project-templates"]

[stylesheets]
theme = "ocean"
`), 0o644))

	t.Setenv("OUTFIT_OUTPUT_MODE", "yaml")
	t.Setenv("OUTFIT_OUTPUT_FILE_PATH", "/tmp/out.txt")
	t.Setenv("OUTFIT_LOG_VERBOSITY", "2")

	cfg, err := Load(Options{
		Path:      explicit,
		Overrides: map[string]interface{}{"output.strict": true, "templates.dirs": []string{"/srv/flag-templates"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Mode, "environment beats files")
	assert.Equal(t, 100, cfg.Output.Width)
	assert.Equal(t, "/tmp/out.txt", cfg.Output.FilePath)
	assert.True(t, cfg.Output.Strict)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "ocean", cfg.Stylesheets.Theme)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, []string{"/srv/user-templates", "/srv/project-templates", "/srv/flag-templates"}, cfg.Templates.Dirs,
		"lists append across layers")
}

func TestLoadUserTomlAndSkip(t *testing.T) {
	configDir, _ := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[output]\nmode = \"csv\"\n"), 0o644))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, render.ModeCSV, cfg.OutputMode())

	cfg, err = Load(Options{SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, render.ModeAuto, cfg.OutputMode())
}

func TestLoadEnvLists(t *testing.T) {
	isolate(t)
	t.Setenv("OUTFIT_STYLESHEETS_DIRS", "/a,/b")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Stylesheets.Dirs)
}

func TestLoadUserDirs(t *testing.T) {
	_, dataDir := isolate(t)
	templates := filepath.Join(dataDir, "templates")
	require.NoError(t, os.MkdirAll(templates, 0o755))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{templates}, cfg.Templates.Dirs)
	assert.Empty(t, cfg.Stylesheets.Dirs, "missing user dirs are skipped")

	cfg, err = Load(Options{Overrides: map[string]interface{}{"templates.user_dir": false}})
	require.NoError(t, err)
	assert.Empty(t, cfg.Templates.Dirs)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		opts Options
		env  map[string]string
	}{
		{name: "missing explicit file", opts: Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "invalid mode", env: map[string]string{"OUTFIT_OUTPUT_MODE": "html"}},
		{name: "negative width", opts: Options{Overrides: map[string]interface{}{"output.width": -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
		})
	}

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("output: [unclosed"), 0o644))
	_, err := Load(Options{Path: broken})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestMergeMaps(t *testing.T) {
	dest := map[string]interface{}{
		"a": 1,
		"list": []interface{}{"x"},
		"nested": map[string]interface{}{"keep": true, "over": "old"},
	}
	mergeMaps(dest, map[string]interface{}{
		"a":      2,
		"list":   []string{"y"},
		"nested": map[string]interface{}{"over": "new"},
		"added":  "z",
	})

	assert.Equal(t, 2, dest["a"])
	assert.Equal(t, []interface{}{"x", "y"}, dest["list"])
	assert.Equal(t, map[string]interface{}{"keep": true, "over": "new"}, dest["nested"])
	assert.Equal(t, "z", dest["added"])
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "output.file_path", envKey("OUTFIT_OUTPUT_FILE_PATH"))
	assert.Equal(t, "stylesheets.user_dir", envKey("OUTFIT_STYLESHEETS_USER_DIR"))
	assert.Equal(t, "watch", envKey("OUTFIT_WATCH"))
}
