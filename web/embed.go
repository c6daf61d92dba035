// Package web carries the portal's templates and static assets inside the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/**/*.html
var Templates embed.FS

//go:embed static/**/*
var static embed.FS

// StaticFS serves the contents of static/ rooted at "/", as mounted under /static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
