package registry

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// Watchable is a registry with on-disk roots.
type Watchable interface {
	WatchDirs() []string
	Rescan() error
}

// Watch rescans regs whenever files under their directories are created,
// removed or renamed, until ctx is done. Content edits need no rescan since
// directory registries re-read on each lookup. onChange, when not nil, runs
// after each rescan with its error.
func Watch(ctx context.Context, onChange func(error), regs ...Watchable) error {
	logger := logging.GetLogger("registry.watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to start file watcher")
	}
	defer w.Close()

	owners := map[string]Watchable{}
	for _, reg := range regs {
		for _, dir := range reg.WatchDirs() {
			if err := addRecursive(w, dir); err != nil {
				return err
			}
			owners[dir] = reg
		}
	}
	if len(owners) == 0 {
		logger.Debug().Msg("no directories to watch")
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New subdirectories need their own watch.
				_ = addRecursive(w, event.Name)
			}
			reg := ownerOf(owners, event.Name)
			if reg == nil {
				continue
			}
			err := reg.Rescan()
			if err != nil {
				logger.Warn().Err(err).Str("path", event.Name).Msg("rescan failed, keeping previous names")
			} else {
				logger.Debug().Str("path", event.Name).Msg("rescanned")
			}
			if onChange != nil {
				onChange(err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Wrapf(err, errors.ErrWalk, "cannot watch %s", root).WithDetail("root", root)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot watch %s", path).WithDetail("path", path)
		}
		return nil
	})
}

func ownerOf(owners map[string]Watchable, path string) Watchable {
	var best string
	for dir := range owners {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
			continue
		}
		if len(dir) > len(best) {
			best = dir
		}
	}
	if best == "" {
		return nil
	}
	return owners[best]
}
