package config

import (
	"github.com/arthur-debert/outfit/pkg/render"
)

// Config is the complete outfit configuration.
type Config struct {
	Output      Output      `koanf:"output"`
	Templates   Resources   `koanf:"templates"`
	Stylesheets Stylesheets `koanf:"stylesheets"`
	// Watch rescans resource directories as files come and go.
	Watch bool    `koanf:"watch"`
	Log   Logging `koanf:"log"`
}

// Output holds rendering and sink settings
type Output struct {
	Mode     string `koanf:"mode"`
	FilePath string `koanf:"file_path"`
	// Width of 0 detects the terminal width.
	Width  int  `koanf:"width"`
	Strict bool `koanf:"strict"`
}

// Resources holds the directories a registry scans.
type Resources struct {
	Dirs    []string `koanf:"dirs"`
	Exclude []string `koanf:"exclude"`
	// UserDir adds the XDG data directory for this resource when present.
	UserDir bool `koanf:"user_dir"`
}

// Stylesheets adds theme selection to Resources.
type Stylesheets struct {
	Resources `koanf:",squash"`
	Theme     string `koanf:"theme"`
}

// Logging holds logging configuration
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// OutputMode returns the parsed output mode. Load has already validated
// it, so an invalid value only occurs on hand-built configs, where it
// falls back to auto.
func (c *Config) OutputMode() render.OutputMode {
	mode, err := render.ParseOutputMode(c.Output.Mode)
	if err != nil {
		return render.ModeAuto
	}
	return mode
}
