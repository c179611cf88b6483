// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/localnerve/callboard/internal/forms"
)

//go:embed templates
var templates embed.FS

//go:embed static
var static embed.FS

var pages = loadPages()

func loadPages() map[string]struct{} {
	names, err := fs.Glob(templates, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[strings.TrimSuffix(path.Base(name), ".html")] = struct{}{}
	}
	return out
}

// Engine builds the template engine over the embedded templates
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(map[string]interface{}{
		"media": func(name string) string {
			return "/media/" + name
		},
		"fieldErr": func(errs forms.Errors, field string) string {
			return errs.First(field)
		},
		"fieldErrs": func(errs forms.Errors, field string) []string {
			return errs[field]
		},
		"date": func(t time.Time) string {
			return t.Format("02.01.2006 15:04")
		},
		"price": func(p float64) string {
			return fmt.Sprintf("%.2f", p)
		},
		"checked": func(ids []uint, id uint) bool {
			for _, v := range ids {
				if v == id {
					return true
				}
			}
			return false
		},
	})
	return engine
}

// HasPage reports whether an informational page named name exists
func HasPage(name string) bool {
	_, ok := pages[name]
	return ok
}

// Static serves the embedded css and images
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
