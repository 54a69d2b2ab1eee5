// Package gamedata provides the embedded default content and loaders that turn
// JSON data files into palettes, rule sets and room templates.
package gamedata

import (
	"embed"
	"io/fs"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing the default content.
func FS() fs.FS {
	return dataFS
}
