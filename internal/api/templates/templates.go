package templates

import (
	"embed"
	"html/template"
	"time"
)

//go:embed layout/*.html includes/*.html posts/*.html users/*.html errors/*.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2 January 2006") },
}

// Parse loads every page and partial into one set. Each file defines its
// templates under their path, e.g. "posts/index.html".
func Parse() (*template.Template, error) {
	return template.New("yatube").Funcs(funcs).ParseFS(files,
		"layout/*.html", "includes/*.html", "posts/*.html", "users/*.html", "errors/*.html")
}

// Must is Parse for package initialisation.
func Must() *template.Template {
	return template.Must(Parse())
}
