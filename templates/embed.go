// Package templates holds the project templates compiled into the binary.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:monorepo
var content embed.FS

// Monorepo returns the pnpm monorepo template rooted at its template.yaml.
func Monorepo() fs.FS {
	sub, err := fs.Sub(content, "monorepo")
	if err != nil {
		panic(err)
	}
	return sub
}
