// Package web holds the HTML template and stylesheet compiled into the binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// Templates parses the page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}

// Assets is the stylesheet tree, rooted so that "css/site.css" resolves.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
