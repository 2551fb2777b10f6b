// ABOUTME: Embedded templates, static assets and posting rules for the HTML pages
// ABOUTME: Shipped inside the binary so the server has no runtime file dependencies

package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Rules is the markdown shown next to the server form and served by /api/rules
//
//go:embed rules.md
var Rules string

// Static returns the assets served under /static/
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
