// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year":     func() int { return time.Now().UTC().Year() },
		"price":    func(p float64) string { return fmt.Sprintf("$%.2f", p) },
		"imageURL": ImageURL,
	}
}

// Templates parses every page and partial into one set.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// ImageURL maps a stored image path to a URL. Relative paths live under
// /static; absolute URLs (e.g. S3 uploads) and site-rooted paths pass through.
// Protocol-relative paths would point at another host, so they get the default.
func ImageURL(path string) string {
	switch {
	case path == "", strings.HasPrefix(path, "//"), strings.HasPrefix(path, `/\`):
		return "/static/img/default_flavor.png"
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "/"):
		return path
	default:
		return "/static/" + path
	}
}
