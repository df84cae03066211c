package registry

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
)

// Root is one directory tree a loader walks. Label names it in errors and
// listings; for on-disk roots it is the directory path.
type Root struct {
	Label string
	FS    fs.FS
}

// DirRoot returns a root reading dir from disk.
func DirRoot(dir string) Root {
	return Root{Label: dir, FS: os.DirFS(dir)}
}

// Entry is one file a name resolves to.
type Entry struct {
	// Name is the registry name: the path relative to the root, with or
	// without the extension, or the dotted form of a nested bare name.
	Name string
	// Rel is the file path relative to its root, always with extension.
	Rel string
	Ext string
	// Root is the label of the root the file came from.
	Root string

	fsys fs.FS
}

// Path is the file's location for humans: root label joined with Rel.
func (e Entry) Path() string {
	return path.Join(e.Root, e.Rel)
}

// dotted reports whether Name is the dotted form of a nested name.
func (e Entry) dotted() bool {
	return e.Name != e.Rel && e.Name+e.Ext != e.Rel
}

// Read returns the file's current bytes.
func (e Entry) Read() ([]byte, error) {
	data, err := fs.ReadFile(e.fsys, e.Rel)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", e.Path()).
			WithDetail("path", e.Path())
	}
	return data, nil
}

// Loader walks roots and builds a name index. Extensions are in priority
// order: when two files in one root differ only by extension, the earlier
// extension owns the bare name.
type Loader struct {
	Extensions []string
	// Exclude holds doublestar patterns matched against root-relative paths.
	Exclude []string
}

// Index maps registry names to files.
type Index map[string]Entry

// Names returns the index's names, sorted.
func (ix Index) Names() []string {
	names := make([]string, 0, len(ix))
	for name := range ix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BaseNames returns only the extensionless names, sorted.
func (ix Index) BaseNames() []string {
	var names []string
	for name, e := range ix {
		if name+e.Ext != e.Rel || e.Ext == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l Loader) priority(ext string) int {
	for i, e := range l.Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

func (l Loader) excluded(rel string) bool {
	for _, pattern := range l.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Scan walks every root. Names found under more than one root are a
// collision error listing every path involved. Dotted forms never collide:
// a file's own name wins over another root's dotted form, and otherwise the
// first root wins.
func (l Loader) Scan(roots ...Root) (Index, error) {
	logger := logging.GetLogger("registry.loader")
	for _, pattern := range l.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid exclude pattern %q", pattern).
				WithDetail("pattern", pattern)
		}
	}

	index := Index{}
	for _, root := range roots {
		local, err := l.scanRoot(root)
		if err != nil {
			return nil, err
		}
		for name, entry := range local {
			if prev, exists := index[name]; exists {
				switch {
				case entry.dotted():
					continue
				case prev.dotted():
				default:
					return nil, collisionError(name, prev, entry)
				}
			}
			index[name] = entry
		}
		logger.Debug().Str("root", root.Label).Int("names", len(local)).Msg("scanned root")
	}
	return index, nil
}

func (l Loader) scanRoot(root Root) (Index, error) {
	bases := Index{}
	withExt := Index{}

	err := fs.WalkDir(root.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrWalk, "failed to walk %s", path.Join(root.Label, p)).
				WithDetail("root", root.Label)
		}
		if d.IsDir() {
			if p != "." && l.excluded(p) {
				return fs.SkipDir
			}
			return nil
		}
		ext := path.Ext(p)
		rank := l.priority(ext)
		if rank < 0 || l.excluded(p) {
			return nil
		}

		base := strings.TrimSuffix(p, ext)
		entry := Entry{Rel: p, Ext: ext, Root: root.Label, fsys: root.FS}

		full := entry
		full.Name = p
		withExt[p] = full

		if prev, exists := bases[base]; exists && l.priority(prev.Ext) < rank {
			return nil
		}
		entry.Name = base
		bases[base] = entry
		return nil
	})
	if err != nil {
		if oe, ok := err.(*errors.OutfitError); ok {
			return nil, oe
		}
		return nil, errors.Wrapf(err, errors.ErrWalk, "failed to walk %s", root.Label).
			WithDetail("root", root.Label)
	}

	// Bare names shadow a longer file's extension form ("a.txt" as the
	// base of "a.txt.j2" wins over "a.txt" with extension).
	for name, entry := range withExt {
		if _, taken := bases[name]; !taken {
			bases[name] = entry
		}
	}

	// Nested bare names also answer to their dotted form ("report.summary"
	// for report/summary.j2) unless a file already owns it.
	for _, name := range bases.BaseNames() {
		if !strings.Contains(name, "/") {
			continue
		}
		dotted := strings.ReplaceAll(name, "/", ".")
		if _, taken := bases[dotted]; taken {
			continue
		}
		alias := bases[name]
		alias.Name = dotted
		bases[dotted] = alias
	}
	return bases, nil
}

func collisionError(name string, a, b Entry) *errors.OutfitError {
	paths := []string{a.Path(), b.Path()}
	return errors.Newf(errors.ErrNameCollision, "%q is defined in more than one root: %s", name, strings.Join(paths, ", ")).
		WithDetail("name", name).
		WithDetail("paths", paths)
}

// FileSet is a scanned set of roots. Live sets read from disk on every
// access and can be rescanned; snapshot sets hold the bytes read at
// construction.
type FileSet struct {
	loader Loader
	roots  []Root
	live   bool

	mu       sync.RWMutex
	index    Index
	snapshot map[string][]byte
}

// NewSnapshot scans roots and keeps their bytes. Use it for embedded
// trees.
func NewSnapshot(loader Loader, roots ...Root) (*FileSet, error) {
	index, err := loader.Scan(roots...)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string][]byte, len(index))
	for name, entry := range index {
		data, err := entry.Read()
		if err != nil {
			return nil, err
		}
		snapshot[name] = data
	}
	return &FileSet{loader: loader, roots: roots, index: index, snapshot: snapshot}, nil
}

// NewLive scans on-disk directories. Contents are read on each access.
func NewLive(loader Loader, dirs ...string) (*FileSet, error) {
	roots := make([]Root, 0, len(dirs))
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrWalk, "cannot read directory %s", dir).
				WithDetail("root", dir)
		}
		if !info.IsDir() {
			return nil, errors.Newf(errors.ErrWalk, "%s is not a directory", dir).WithDetail("root", dir)
		}
		roots = append(roots, DirRoot(dir))
	}
	index, err := loader.Scan(roots...)
	if err != nil {
		return nil, err
	}
	return &FileSet{loader: loader, roots: roots, live: true, index: index}, nil
}

// Live reports whether the set reads from disk on access.
func (s *FileSet) Live() bool {
	return s != nil && s.live
}

// Lookup returns the entry and bytes for name. ok is false when name is
// not in the set.
func (s *FileSet) Lookup(name string) (entry Entry, data []byte, ok bool, err error) {
	if s == nil {
		return Entry{}, nil, false, nil
	}
	s.mu.RLock()
	entry, ok = s.index[name]
	if !s.live {
		data = s.snapshot[name]
	}
	s.mu.RUnlock()
	if !ok {
		return Entry{}, nil, false, nil
	}
	if s.live {
		data, err = entry.Read()
		if err != nil {
			return entry, nil, true, err
		}
	}
	return entry, data, true, nil
}

// Index returns a copy of the current name index.
func (s *FileSet) Index() Index {
	if s == nil {
		return Index{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Index, len(s.index))
	for k, v := range s.index {
		out[k] = v
	}
	return out
}

// Dirs returns the on-disk directories of a live set.
func (s *FileSet) Dirs() []string {
	if !s.Live() {
		return nil
	}
	dirs := make([]string, len(s.roots))
	for i, r := range s.roots {
		dirs[i] = r.Label
	}
	return dirs
}

// Rescan rebuilds the index of a live set. On error the previous index is
// kept.
func (s *FileSet) Rescan() error {
	if !s.Live() {
		return nil
	}
	index, err := s.loader.Scan(s.roots...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return nil
}
