package output

import (
	"os"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/arthur-debert/outfit/pkg/stylesheet"
)

// ResolveTheme returns the named theme layered over the default theme, so
// application themes only define what they add or change. An empty name
// returns the default theme.
func ResolveTheme(reg *registry.StylesheetRegistry, name string) (*style.Theme, error) {
	if name == "" {
		name = registry.DefaultTheme
	}
	theme, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	if name == registry.DefaultTheme {
		return theme, nil
	}
	base, err := reg.Get(registry.DefaultTheme)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrThemeNotFound) {
			return theme, nil
		}
		return nil, err
	}
	return base.Extend(theme)
}

// LoadThemeFile parses a stylesheet outside any registry. The theme is
// named after the file.
func LoadThemeFile(path string) (*style.Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot read stylesheet %s", path).
			WithDetail("path", path)
	}
	return stylesheet.Parse(path, data)
}
