package handler

import (
	"log/slog"
	"net/http"

	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
)

// Renderer renders a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, p view.Page)
}

// Notice is an inline message above a public form.
type Notice struct {
	Kind    string // "ok" | "warn" | "error"
	Message string
}

func noticeFor(ack service.Acknowledgment) *Notice {
	if ack.Delivered() {
		return &Notice{Kind: "ok", Message: ack.Message}
	}
	return &Notice{Kind: "warn", Message: ack.Message}
}

func errorNotice(msg string) *Notice {
	return &Notice{Kind: "error", Message: msg}
}

type errorData struct {
	Message string
}

// renderError shows the error page. Internal details never reach the page.
func renderError(v Renderer, w http.ResponseWriter, r *http.Request, status int, msg string) {
	v.Render(w, r, status, "error", view.Page{Title: http.StatusText(status), Data: errorData{Message: msg}})
}

// NotFound renders the 404 page for unmatched paths.
func NotFound(v Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("no route", "method", r.Method, "path", r.URL.Path)
		renderError(v, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
	}
}
