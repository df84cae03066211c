package style

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ColorMode selects which overlay of adaptive styles is used.
type ColorMode int

const (
	// Dark is the default: most terminals run on a dark background.
	Dark ColorMode = iota
	Light
)

// String returns the string representation of the color mode
func (m ColorMode) String() string {
	if m == Light {
		return "light"
	}
	return "dark"
}

// ParseColorMode parses "light" or "dark" (case-insensitive).
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return Dark, fmt.Errorf("unknown color mode: %s", s)
	}
}

// ColorModeDetector returns the OS/terminal color-scheme preference.
type ColorModeDetector func() ColorMode

var detector = struct {
	sync.RWMutex
	fn ColorModeDetector
}{fn: backgroundDetector}

// backgroundDetector asks the terminal for its background color.
func backgroundDetector() ColorMode {
	if lipgloss.HasDarkBackground() {
		return Dark
	}
	return Light
}

// SetColorModeDetector replaces the process-wide detector. Applications set
// it once at startup; tests override it and call the returned restore func.
func SetColorModeDetector(fn ColorModeDetector) (restore func()) {
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

// FixedColorMode returns a detector that always reports mode.
func FixedColorMode(mode ColorMode) ColorModeDetector {
	return func() ColorMode { return mode }
}

// DetectColorMode runs the current detector. Renders call it once each.
func DetectColorMode() ColorMode {
	detector.RLock()
	fn := detector.fn
	detector.RUnlock()
	return fn()
}
