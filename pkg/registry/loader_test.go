package registry_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/outfit/pkg/engine"
	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestScanNames(t *testing.T) {
	root := registry.Root{Label: "app", FS: fstest.MapFS{
		"list.j2":            file("j2"),
		"list.txt":           file("txt"),
		"report/summary.j2":  file("summary"),
		"report/detail.stpl": file("{x}"),
		"notes.md":           file("ignored"),
		"partials/_head.j2":  file("head"),
	}}

	index, err := registry.TemplateLoader([]string{"**/_*"}).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"list", "list.j2", "list.txt",
		"report.detail", "report.summary",
		"report/detail", "report/detail.stpl",
		"report/summary", "report/summary.j2",
	}, index.Names())
	assert.Equal(t, []string{"list", "report/detail", "report/summary"}, index.BaseNames())

	assert.Equal(t, "list.j2", index["list"].Rel, "higher-priority extension owns the bare name")
	assert.Equal(t, "list.txt", index["list.txt"].Rel)
	assert.Equal(t, "app/report/summary.j2", index["report/summary"].Path())
	assert.Equal(t, "report/summary.j2", index["report.summary"].Rel, "nested names answer to their dotted form")
}

func TestScanDottedNames(t *testing.T) {
	root := registry.Root{Label: "r", FS: fstest.MapFS{
		"a/b.j2":     file("nested"),
		"a.b.txt":    file("flat"),
		"x/y/z.stpl": file("deep"),
	}}

	index, err := registry.TemplateLoader(nil).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, "a.b.txt", index["a.b"].Rel, "a real file owns the dotted name")
	assert.Equal(t, "a/b.j2", index["a/b"].Rel)
	assert.Equal(t, "x/y/z.stpl", index["x.y.z"].Rel)
	assert.Equal(t, "x.y.z", index["x.y.z"].Name)
	assert.NotContains(t, index.BaseNames(), "x.y.z")
}

func TestScanPriorityIsOrderIndependent(t *testing.T) {
	for _, files := range []fstest.MapFS{
		{"a.txt": file("txt"), "a.jinja": file("jinja")},
		{"a.jinja": file("jinja"), "a.txt": file("txt")},
	} {
		index, err := registry.TemplateLoader(nil).Scan(registry.Root{Label: "r", FS: files})
		require.NoError(t, err)
		assert.Equal(t, ".jinja", index["a"].Ext)
	}
}

func TestScanCrossRootCollision(t *testing.T) {
	a := registry.Root{Label: "one", FS: fstest.MapFS{"list.j2": file("a")}}
	b := registry.Root{Label: "two", FS: fstest.MapFS{"list.txt": file("b")}}

	_, err := registry.TemplateLoader(nil).Scan(a, b)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameCollision))
	assert.Contains(t, err.Error(), "one/list.j2")
	assert.Contains(t, err.Error(), "two/list.txt")
	assert.Equal(t, errors.KindConstruction, errors.GetErrorKind(err))
}

func TestScanDottedNamesAcrossRoots(t *testing.T) {
	nested := registry.Root{Label: "one", FS: fstest.MapFS{"a/b.j2": file("nested")}}
	flat := registry.Root{Label: "two", FS: fstest.MapFS{"a.b.j2": file("flat")}}

	for _, roots := range [][]registry.Root{{nested, flat}, {flat, nested}} {
		index, err := registry.TemplateLoader(nil).Scan(roots...)
		require.NoError(t, err)
		assert.Equal(t, "two/a.b.j2", index["a.b"].Path())
		assert.Equal(t, "one/a/b.j2", index["a/b"].Path())
	}
}

func TestScanErrors(t *testing.T) {
	_, err := registry.TemplateLoader([]string{"[bad"}).Scan()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = registry.NewLive(registry.TemplateLoader(nil), filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrWalk))
}

func TestSnapshotAndLive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hello.j2", "v1")

	live, err := registry.NewLive(registry.TemplateLoader(nil), dir)
	require.NoError(t, err)
	snap, err := registry.NewSnapshot(registry.TemplateLoader(nil), registry.DirRoot(dir))
	require.NoError(t, err)

	writeFile(t, dir, "hello.j2", "v2")

	_, data, ok, err := live.Lookup("hello")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", string(data), "live sets re-read")

	_, data, ok, err = snap.Lookup("hello")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", string(data), "snapshots keep construction bytes")

	writeFile(t, dir, "added.txt", "new")
	_, _, ok, _ = live.Lookup("added")
	assert.False(t, ok, "new files need a rescan")
	require.NoError(t, live.Rescan())
	_, _, ok, _ = live.Lookup("added")
	assert.True(t, ok)

	assert.Equal(t, []string{dir}, live.Dirs())
	assert.Nil(t, snap.Dirs())
}

func TestSnapshotAndLiveAgree(t *testing.T) {
	dir := t.TempDir()
	for rel, content := range map[string]string{
		"a.j2":       "a",
		"a.txt":      "a2",
		"x/y/z.stpl": "{z}",
		"x/b.jinja2": "b",
	} {
		writeFile(t, dir, rel, content)
	}

	loader := registry.Loader{Extensions: engine.Extensions}
	live, err := registry.NewLive(loader, dir)
	require.NoError(t, err)
	snap, err := registry.NewSnapshot(loader, registry.DirRoot(dir))
	require.NoError(t, err)

	assert.Equal(t, snap.Index().Names(), live.Index().Names())
	for _, name := range live.Index().Names() {
		_, a, _, _ := live.Lookup(name)
		_, b, _, _ := snap.Lookup(name)
		assert.Equal(t, string(b), string(a), name)
	}
}
