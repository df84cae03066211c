package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/muesli/termenv"
)

// ColorKind tells which palette a Color refers to.
type ColorKind uint8

const (
	// ColorNone is the zero value: no color set.
	ColorNone ColorKind = iota
	// ColorNamed is one of the 16 ANSI colors.
	ColorNamed
	// ColorPalette is an index into the 256-color palette.
	ColorPalette
	// ColorRGB is a true-color triple.
	ColorRGB
)

// Color is a terminal color. The zero value means "unset".
type Color struct {
	Kind  ColorKind
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// namedColors maps the 16 ANSI names (and a couple of common spellings) to
// their palette index.
var namedColors = map[string]uint8{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright_black":   8,
	"bright_red":     9,
	"bright_green":   10,
	"bright_yellow":  11,
	"bright_blue":    12,
	"bright_magenta": 13,
	"bright_cyan":    14,
	"bright_white":   15,
	"gray":           8,
	"grey":           8,
}

var colorNames = [...]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright_black", "bright_red", "bright_green", "bright_yellow",
	"bright_blue", "bright_magenta", "bright_cyan", "bright_white",
}

// Named returns the ANSI color with the given name.
func Named(name string) (Color, error) {
	idx, ok := namedColors[normalizeColorName(name)]
	if !ok {
		return Color{}, errors.Newf(errors.ErrInvalidColor, "unknown color name %q", name)
	}
	return Color{Kind: ColorNamed, Index: idx}, nil
}

// Palette returns the 256-palette color at index i.
func Palette(i uint8) Color {
	return Color{Kind: ColorPalette, Index: i}
}

// RGB returns a true-color value.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsColorName reports whether s names one of the ANSI colors.
func IsColorName(s string) bool {
	_, ok := namedColors[normalizeColorName(s)]
	return ok
}

func normalizeColorName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "_")
}

// ParseColor parses a color literal: an ANSI name, a decimal palette index
// (0-255) or #rrggbb hex.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, errors.New(errors.ErrInvalidColor, "empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	if s[0] >= '0' && s[0] <= '9' {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 255 {
			return Color{}, errors.Newf(errors.ErrInvalidColor, "palette index %q out of range 0-255", s)
		}
		return Palette(uint8(n)), nil
	}

	return Named(s)
}

// ColorFromTriple builds a true color from three integer components.
func ColorFromTriple(vals []int) (Color, error) {
	if len(vals) != 3 {
		return Color{}, errors.Newf(errors.ErrInvalidColor, "color triple needs 3 components, got %d", len(vals))
	}
	for _, v := range vals {
		if v < 0 || v > 255 {
			return Color{}, errors.Newf(errors.ErrInvalidColor, "color component %d out of range 0-255", v)
		}
	}
	return RGB(uint8(vals[0]), uint8(vals[1]), uint8(vals[2])), nil
}

func parseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, errors.Newf(errors.ErrInvalidColor, "hex color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Newf(errors.ErrInvalidColor, "hex color %q is not valid hex", s)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// IsSet reports whether the color carries a value.
func (c Color) IsSet() bool {
	return c.Kind != ColorNone
}

// String returns the literal form of the color, parseable by ParseColor.
func (c Color) String() string {
	switch c.Kind {
	case ColorNamed:
		return colorNames[c.Index&0x0f]
	case ColorPalette:
		return strconv.Itoa(int(c.Index))
	case ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return ""
	}
}

func (c Color) termenv() termenv.Color {
	switch c.Kind {
	case ColorNamed:
		return termenv.ANSIColor(c.Index)
	case ColorPalette:
		return termenv.ANSI256Color(c.Index)
	case ColorRGB:
		return termenv.RGBColor(c.String())
	default:
		return termenv.NoColor{}
	}
}

// Sequence returns the SGR parameters selecting this color as foreground
// (or background) for the given profile. Colors the profile cannot show are
// degraded, and Ascii drops them entirely.
func (c Color) Sequence(profile termenv.Profile, bg bool) string {
	if !c.IsSet() {
		return ""
	}
	converted := profile.Convert(c.termenv())
	if converted == nil {
		return ""
	}
	return converted.Sequence(bg)
}
