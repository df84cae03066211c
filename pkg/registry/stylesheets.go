package registry

import (
	"sort"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/registry/defaults"
	"github.com/arthur-debert/outfit/pkg/style"
	"github.com/arthur-debert/outfit/pkg/stylesheet"
)

// StylesheetExtensions lists stylesheet file extensions in priority order.
var StylesheetExtensions = []string{".yaml", ".yml"}

// DefaultTheme is the theme outfit ships with.
const DefaultTheme = defaults.ThemeName

// StylesheetConfig lists the sources of a StylesheetRegistry.
type StylesheetConfig struct {
	Embedded   []Root
	Dirs       []string
	Exclude    []string
	NoDefaults bool
}

// StylesheetRegistry maps theme names to themes. Themes are named after
// their stylesheet path without extension.
type StylesheetRegistry struct {
	inline   Registry[*style.Theme]
	embedded *FileSet
	files    *FileSet
	defaults *FileSet
	// base is the framework default theme every other stylesheet extends.
	base *style.Theme
	// parsed caches snapshot themes, which never change.
	parsed map[*FileSet]map[string]*style.Theme
}

// StylesheetLoader returns the loader used for stylesheets.
func StylesheetLoader(exclude []string) Loader {
	return Loader{Extensions: StylesheetExtensions, Exclude: exclude}
}

// NewStylesheetRegistry scans and parses every stylesheet. Stylesheets
// extend the framework default theme (unless NoDefaults is set) and may
// alias its styles. Any invalid stylesheet fails construction.
func NewStylesheetRegistry(cfg StylesheetConfig) (*StylesheetRegistry, error) {
	logger := logging.GetLogger("registry.stylesheets")
	loader := StylesheetLoader(cfg.Exclude)

	r := &StylesheetRegistry{
		inline: New[*style.Theme](errors.ErrThemeNotFound),
		parsed: map[*FileSet]map[string]*style.Theme{},
	}
	var err error
	if len(cfg.Embedded) > 0 {
		if r.embedded, err = NewSnapshot(loader, cfg.Embedded...); err != nil {
			return nil, err
		}
	}
	if len(cfg.Dirs) > 0 {
		if r.files, err = NewLive(loader, cfg.Dirs...); err != nil {
			return nil, err
		}
	}
	if !cfg.NoDefaults {
		if r.defaults, err = NewSnapshot(StylesheetLoader(nil), Root{Label: "outfit", FS: defaults.Stylesheets()}); err != nil {
			return nil, err
		}
	}

	if r.defaults != nil {
		if r.base, err = r.parse(r.defaults, DefaultTheme); err != nil {
			return nil, err
		}
	}

	for _, layer := range r.layers() {
		themes := map[string]*style.Theme{}
		for _, name := range layer.set.Index().BaseNames() {
			theme, err := r.parse(layer.set, name)
			if err != nil {
				return nil, err
			}
			themes[name] = theme
		}
		if !layer.set.Live() {
			r.parsed[layer.set] = themes
		}
	}

	logger.Debug().Strs("themes", r.Names()).Msg("stylesheet registry ready")
	return r, nil
}

func (r *StylesheetRegistry) layers() []namedSet {
	var out []namedSet
	for _, l := range []namedSet{
		{LayerEmbedded, r.embedded},
		{LayerFile, r.files},
		{LayerDefault, r.defaults},
	} {
		if l.set != nil {
			out = append(out, l)
		}
	}
	return out
}

func (r *StylesheetRegistry) parse(set *FileSet, name string) (*style.Theme, error) {
	entry, data, _, err := set.Lookup(name)
	if err != nil {
		return nil, err
	}
	base := r.base
	if set == r.defaults {
		base = nil
	}
	theme, err := stylesheet.ParseOver(base, name, data)
	if err != nil {
		if oe, ok := err.(*errors.OutfitError); ok {
			return nil, oe.WithDetail("path", entry.Path())
		}
		return nil, err
	}
	return theme, nil
}

// Add registers theme under its name, shadowing stylesheets.
func (r *StylesheetRegistry) Add(theme *style.Theme) error {
	if theme == nil {
		return errors.New(errors.ErrInvalidInput, "theme cannot be nil")
	}
	return r.inline.Set(theme.Name(), theme)
}

// Get returns the named theme. Themes from directories are re-read so
// edits show up without a restart.
func (r *StylesheetRegistry) Get(name string) (*style.Theme, error) {
	if theme, err := r.inline.Get(name); err == nil {
		return theme, nil
	}
	for _, layer := range r.layers() {
		if cached, ok := r.parsed[layer.set]; ok {
			if theme, found := cached[name]; found {
				return theme, nil
			}
			continue
		}
		if _, _, ok, _ := layer.set.Lookup(name); !ok {
			continue
		}
		return r.parse(layer.set, name)
	}
	return nil, errors.Newf(errors.ErrThemeNotFound, "theme %q not found", name).WithDetail("theme", name)
}

// Names returns every theme name, sorted.
func (r *StylesheetRegistry) Names() []string {
	seen := map[string]bool{}
	for _, name := range r.inline.List() {
		seen[name] = true
	}
	for _, layer := range r.layers() {
		for _, name := range layer.set.Index().BaseNames() {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WatchDirs returns the on-disk stylesheet directories.
func (r *StylesheetRegistry) WatchDirs() []string {
	return r.files.Dirs()
}

// Rescan refreshes the on-disk name index.
func (r *StylesheetRegistry) Rescan() error {
	return r.files.Rescan()
}
