// Package defaults embeds the templates and theme outfit ships with.
//
// Templates live under the outfit/ namespace:
//
//	outfit/message  .Level (success, failure, warning, info, pending) and .Text
//	outfit/error    .Message and optional .Details map
//	outfit/list     optional .Title and .Items
//	outfit/kv       .Pairs map, keys aligned
//
// The "default" theme defines every style those templates use.
package defaults

import (
	"embed"
	"io/fs"
)

//go:embed templates stylesheets
var files embed.FS

// ThemeName is the name of the embedded theme.
const ThemeName = "default"

// Templates returns the embedded template tree.
func Templates() fs.FS {
	return sub("templates")
}

// Stylesheets returns the embedded stylesheet tree.
func Stylesheets() fs.FS {
	return sub("stylesheets")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return f
}
