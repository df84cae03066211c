package registry

import (
	"sort"

	"github.com/arthur-debert/outfit/pkg/engine"
	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/registry/defaults"
)

// Layer names where a template came from, in lookup order.
type Layer string

const (
	LayerInline   Layer = "inline"
	LayerEmbedded Layer = "embedded"
	LayerFile     Layer = "file"
	LayerDefault  Layer = "default"
)

// TemplateConfig lists the sources of a TemplateRegistry.
type TemplateConfig struct {
	// Embedded roots are read once at construction.
	Embedded []Root
	// Dirs are read from disk on every lookup.
	Dirs    []string
	Exclude []string
	// NoDefaults leaves out the outfit/* templates.
	NoDefaults bool
}

// TemplateInfo describes one resolvable template name.
type TemplateInfo struct {
	Name  string
	Layer Layer
	// Path is empty for inline templates.
	Path string
	Kind engine.Kind
}

// TemplateRegistry resolves names through inline, embedded, file and
// default templates, first match wins.
type TemplateRegistry struct {
	inline   Registry[engine.Source]
	embedded *FileSet
	files    *FileSet
	defaults *FileSet
}

// TemplateLoader returns the loader used for templates.
func TemplateLoader(exclude []string) Loader {
	return Loader{Extensions: engine.Extensions, Exclude: exclude}
}

// NewTemplateRegistry scans every configured root. Name collisions across
// roots of one layer fail construction.
func NewTemplateRegistry(cfg TemplateConfig) (*TemplateRegistry, error) {
	logger := logging.GetLogger("registry.templates")
	loader := TemplateLoader(cfg.Exclude)

	r := &TemplateRegistry{inline: New[engine.Source](errors.ErrTemplateNotFound)}
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
		if r.defaults, err = NewSnapshot(TemplateLoader(nil), Root{Label: "outfit", FS: defaults.Templates()}); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Int("embedded", len(r.embedded.Index())).
		Int("files", len(r.files.Index())).
		Int("defaults", len(r.defaults.Index())).
		Msg("template registry ready")
	return r, nil
}

// AddTemplate registers content under name, shadowing every other layer.
// The engine is picked from name's extension, full when it has none.
func (r *TemplateRegistry) AddTemplate(name, content string) error {
	return r.inline.Set(name, engine.NewSource(name, []byte(content)))
}

// RemoveTemplate drops an inline template, uncovering the layers below.
func (r *TemplateRegistry) RemoveTemplate(name string) error {
	return r.inline.Remove(name)
}

// Get resolves name.
func (r *TemplateRegistry) Get(name string) (engine.Source, error) {
	src, _, err := r.resolve(name)
	return src, err
}

// Lookup implements engine.Includer.
func (r *TemplateRegistry) Lookup(name string) (engine.Source, error) {
	return r.Get(name)
}

// Has reports whether name resolves in any layer.
func (r *TemplateRegistry) Has(name string) bool {
	_, _, err := r.resolve(name)
	return err == nil
}

func (r *TemplateRegistry) resolve(name string) (engine.Source, TemplateInfo, error) {
	if src, err := r.inline.Get(name); err == nil {
		return src, TemplateInfo{Name: name, Layer: LayerInline, Kind: src.Kind}, nil
	}
	for _, layer := range r.layers() {
		entry, data, ok, err := layer.set.Lookup(name)
		if err != nil {
			return engine.Source{}, TemplateInfo{}, err
		}
		if !ok {
			continue
		}
		src := engine.Source{Name: name, Content: data, Kind: engine.KindForName(entry.Rel)}
		return src, TemplateInfo{Name: name, Layer: layer.name, Path: entry.Path(), Kind: src.Kind}, nil
	}
	return engine.Source{}, TemplateInfo{}, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name).
		WithDetail("template", name)
}

type namedSet struct {
	name Layer
	set  *FileSet
}

func (r *TemplateRegistry) layers() []namedSet {
	return []namedSet{
		{LayerEmbedded, r.embedded},
		{LayerFile, r.files},
		{LayerDefault, r.defaults},
	}
}

// List describes every resolvable name once, attributed to the layer that
// wins it. Names with extensions are left out when the bare name resolves
// to the same file.
func (r *TemplateRegistry) List() []TemplateInfo {
	seen := map[string]bool{}
	var out []TemplateInfo
	for _, name := range r.inline.List() {
		seen[name] = true
		src, _ := r.inline.Get(name)
		out = append(out, TemplateInfo{Name: name, Layer: LayerInline, Kind: src.Kind})
	}
	for _, layer := range r.layers() {
		index := layer.set.Index()
		for _, name := range index.BaseNames() {
			if seen[name] {
				continue
			}
			seen[name] = true
			entry := index[name]
			out = append(out, TemplateInfo{Name: name, Layer: layer.name, Path: entry.Path(), Kind: engine.KindForName(entry.Rel)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every resolvable name, bare and with extension, sorted.
func (r *TemplateRegistry) Names() []string {
	seen := map[string]bool{}
	for _, name := range r.inline.List() {
		seen[name] = true
	}
	for _, layer := range r.layers() {
		for name := range layer.set.Index() {
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

// WatchDirs returns the on-disk template directories.
func (r *TemplateRegistry) WatchDirs() []string {
	return r.files.Dirs()
}

// Rescan refreshes the on-disk name index.
func (r *TemplateRegistry) Rescan() error {
	return r.files.Rescan()
}
