// Package registry resolves template and stylesheet names to files.
//
// A Loader walks one or more roots and indexes every file with a known
// extension twice: by its root-relative path without the extension
// ("report/summary") and with it ("report/summary.j2"). When one root
// holds the same base under two extensions, the extension listed first
// owns the bare name. The same base under two different roots is an
// error naming both paths.
//
// Roots come from embedded trees (read once, see NewSnapshot) or
// directories on disk (re-read on every lookup, see NewLive). Both go
// through the same Loader, so they resolve names the same way.
//
// TemplateRegistry looks names up inline first, then embedded, then on
// disk, then in the outfit/* defaults. StylesheetRegistry does the same
// for themes. Watch keeps directory indexes current as files come and go.
package registry
