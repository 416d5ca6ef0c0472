// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/pkg/auth"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer escapes raw HTML in documents (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown converts a markdown document to HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page is the data every template receives. Data carries the
// page-specific view model.
type Page struct {
	Title     string
	Nav       string
	CSRFField template.HTML
	Admin     *auth.Identity
	Data      any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"stars": func(n int) string {
		if n < 0 {
			n = 0
		}
		if n > model.MaxRating {
			n = model.MaxRating
		}
		return strings.Repeat("★", n) + strings.Repeat("☆", model.MaxRating-n)
	},
	"date": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"imageOr": func(src string) string {
		if src == "" {
			return model.PlaceholderImage
		}
		return src
	},
	"seq": func(from, to int) []int {
		var out []int
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
	"year": func() int { return time.Now().Year() },
}

// New parses the layout and partials with each page template.
func New() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, p := range names {
		name := strings.TrimSuffix(path.Base(p), ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials/*.html", p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into w with status. The CSRF field of
// the request is injected into p.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	t, ok := v.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	p.CSRFField = csrf.TemplateField(r)
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		p.Admin = &id
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded stylesheet and images under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
