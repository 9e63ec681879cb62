// Package templates holds the HTML pages rendered by the controllers.
package templates

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/Masterminds/sprig"
)

//go:embed html
var files embed.FS

// Patterns lists every template file in the embedded tree.
var Patterns = []string{
	"html/partials/*.html",
	"html/posts/*.html",
	"html/users/*.html",
	"html/auth/*.html",
	"html/misc/*.html",
	"html/about/*.html",
}

// Funcs are the helpers shared by every page, on top of sprig.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"paragraphs": paragraphs,
		"humanDate": func(t time.Time) string {
			return t.Format("2 January 2006 15:04")
		},
		"mediaURL": func(key string) string {
			if key == "" {
				return ""
			}
			return "/media/" + key
		},
	}
}

// Load parses the page set. extra overrides the default helpers, which is how
// the server points mediaURL at the configured storage.
func Load(extra template.FuncMap) (*template.Template, error) {
	funcs := sprig.FuncMap()
	for name, fn := range Funcs() {
		funcs[name] = fn
	}
	for name, fn := range extra {
		funcs[name] = fn
	}
	return template.New("yatube").Funcs(funcs).ParseFS(files, Patterns...)
}

// paragraphs splits post text on blank lines.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
