// Package web embeds the static HTML pages served at / and /dev.
package web

import "embed"

// Page names.
const (
	IndexPage = "index.html"
	DevPage   = "dev.html"
)

//go:embed pages/*.html
var pages embed.FS

// Page returns the contents of an embedded page.
func Page(name string) ([]byte, error) {
	return pages.ReadFile("pages/" + name)
}
