package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gpdecorators/site/internal/view"
)

// allowedLegalTypes is the allowlist of legal document names served under
// /legal/{type}.
var allowedLegalTypes = map[string]string{
	"terms":   "Terms of Service",
	"privacy": "Privacy Policy",
}

// DocumentSource loads raw markdown by name.
type DocumentSource interface {
	Load(name string) ([]byte, error)
}

type docData struct {
	HTML template.HTML
}

// DocumentHandler serves the markdown-backed pages: about and legal.
type DocumentHandler struct {
	docs DocumentSource
	view Renderer
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(docs DocumentSource, v Renderer) *DocumentHandler {
	return &DocumentHandler{docs: docs, view: v}
}

// About handles GET /about.
func (h *DocumentHandler) About(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "about", "About Us", "about")
}

// Legal handles GET /legal/{type}.
// Rejects path traversal attempts with 400 and unknown types with 404.
func (h *DocumentHandler) Legal(w http.ResponseWriter, r *http.Request) {
	docType := r.PathValue("type")
	if strings.ContainsAny(docType, `/\`) || strings.Contains(docType, "..") {
		renderError(h.view, w, r, http.StatusBadRequest, "Invalid document.")
		return
	}
	title, ok := allowedLegalTypes[docType]
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
		return
	}
	h.serve(w, r, docType, title, "legal")
}

func (h *DocumentHandler) serve(w http.ResponseWriter, r *http.Request, name, title, nav string) {
	src, err := h.docs.Load(name)
	if err != nil {
		if errors.Is(err, view.ErrNoDocument) {
			renderError(h.view, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
			return
		}
		slog.Error("load document", "name", name, "error", err)
		renderError(h.view, w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	body, err := view.Markdown(src)
	if err != nil {
		slog.Error("render document", "name", name, "error", err)
		renderError(h.view, w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	h.view.Render(w, r, http.StatusOK, "doc", view.Page{Title: title, Nav: nav, Data: docData{HTML: body}})
}
