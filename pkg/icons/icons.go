// Package icons provides the small glyph set templates use for status
// markers, in a classic Unicode variant and a Nerd Font variant.
package icons

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// EnvNerdFont selects the Nerd Font variant when set to 1, true or yes.
const EnvNerdFont = "NERD_FONT"

// Mode selects the glyph variant.
type Mode int

const (
	Classic Mode = iota
	NerdFont
)

// String returns the string representation of the mode
func (m Mode) String() string {
	if m == NerdFont {
		return "nerd-font"
	}
	return "classic"
}

type glyph struct {
	classic string
	nerd    string
}

var glyphs = map[string]glyph{
	"success": {classic: "✓", nerd: ""},
	"failure": {classic: "✗", nerd: ""},
	"warning": {classic: "⚠", nerd: ""},
	"info":    {classic: "ℹ", nerd: ""},
	"pending": {classic: "…", nerd: ""},
	"arrow":   {classic: "→", nerd: ""},
	"folder":  {classic: "▸", nerd: ""},
	"file":    {classic: "•", nerd: ""},
}

// Names returns the known icon names, sorted.
func Names() []string {
	names := make([]string, 0, len(glyphs))
	for name := range glyphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the glyph for name in mode. Unknown names return "".
func Get(name string, mode Mode) string {
	g, ok := glyphs[strings.ToLower(name)]
	if !ok {
		return ""
	}
	if mode == NerdFont {
		return g.nerd
	}
	return g.classic
}

// Detector returns the icon mode to use.
type Detector func() Mode

var detector = struct {
	sync.RWMutex
	fn Detector
}{fn: EnvDetector}

// EnvDetector reads NERD_FONT.
func EnvDetector() Mode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvNerdFont))) {
	case "1", "true", "yes":
		return NerdFont
	default:
		return Classic
	}
}

// SetModeDetector replaces the process-wide detector and returns a func
// restoring the previous one.
func SetModeDetector(fn Detector) (restore func()) {
	detector.Lock()
	prev := detector.fn
	detector.fn = fn
	detector.Unlock()

	return func() {
		detector.Lock()
		detector.fn = prev
		detector.Unlock()
	}
}

// FixedMode returns a detector always reporting mode.
func FixedMode(mode Mode) Detector {
	return func() Mode { return mode }
}

// DetectMode runs the current detector.
func DetectMode() Mode {
	detector.RLock()
	fn := detector.fn
	detector.RUnlock()
	return fn()
}

// Set is the glyph table for one mode, handed to templates.
type Set struct {
	Mode Mode
}

// ForMode returns the set for mode.
func ForMode(mode Mode) Set {
	return Set{Mode: mode}
}

// Get returns the glyph for name.
func (s Set) Get(name string) string {
	return Get(name, s.Mode)
}
