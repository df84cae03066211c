package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arthur-debert/outfit/pkg/lipbalm"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode is the kind of output a render produces.
type OutputMode int

const (
	// ModeAuto resolves to ModeTerm on an interactive terminal, else ModeText
	ModeAuto OutputMode = iota
	// ModeTerm renders styled terminal output
	ModeTerm
	// ModeText renders plain text without any styling
	ModeText
	// ModeTermDebug keeps the style markers visible
	ModeTermDebug
	// ModeJSON serializes the data as JSON
	ModeJSON
	// ModeYAML serializes the data as YAML
	ModeYAML
	// ModeXML serializes the data as XML
	ModeXML
	// ModeCSV flattens the data into CSV
	ModeCSV
)

// Modes lists every output mode in flag order.
var Modes = []OutputMode{ModeAuto, ModeTerm, ModeText, ModeTermDebug, ModeJSON, ModeYAML, ModeXML, ModeCSV}

// String returns the string representation of the mode
func (m OutputMode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeTerm:
		return "term"
	case ModeText:
		return "text"
	case ModeTermDebug:
		return "term-debug"
	case ModeJSON:
		return "json"
	case ModeYAML:
		return "yaml"
	case ModeXML:
		return "xml"
	case ModeCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ParseOutputMode parses a mode name, case-insensitively
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ModeAuto, nil
	case "term", "terminal":
		return ModeTerm, nil
	case "text", "plain":
		return ModeText, nil
	case "term-debug", "term_debug", "termdebug", "debug":
		return ModeTermDebug, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	case "xml":
		return ModeXML, nil
	case "csv":
		return ModeCSV, nil
	default:
		return ModeAuto, fmt.Errorf("unknown output mode: %s", s)
	}
}

// IsStructured reports whether the mode bypasses templates and serializes
// the data directly.
func (m OutputMode) IsStructured() bool {
	switch m {
	case ModeJSON, ModeYAML, ModeXML, ModeCSV:
		return true
	default:
		return false
	}
}

// Transform returns the tag pass a textual mode uses.
func (m OutputMode) Transform() lipbalm.Transform {
	switch m {
	case ModeTerm:
		return lipbalm.Apply
	case ModeTermDebug:
		return lipbalm.Keep
	default:
		return lipbalm.Remove
	}
}

// Resolve turns ModeAuto into ModeTerm or ModeText. Other modes are returned
// unchanged.
func (m OutputMode) Resolve(interactive bool) OutputMode {
	if m != ModeAuto {
		return m
	}
	if interactive {
		return ModeTerm
	}
	return ModeText
}

// DetectMode determines the textual mode for output based on environment
// and terminal capabilities
func DetectMode(output *os.File) OutputMode {
	if IsInteractive(output) {
		return ModeTerm
	}
	return ModeText
}

// IsInteractive reports whether output is a color-capable terminal the user
// did not opt out of coloring.
func IsInteractive(output *os.File) bool {
	if output == nil {
		return false
	}

	// Check if NO_COLOR is set
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check if we're being piped or redirected
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return false
	}

	// Check terminal color support
	return termenv.EnvColorProfile() != termenv.Ascii
}

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// DetectWidth returns the column count of output, then $COLUMNS, then
// DefaultWidth.
func DetectWidth(output *os.File) int {
	if output != nil {
		if w, _, err := term.GetSize(int(output.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}
