package handler

import (
	"net/http"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
)

type homeData struct {
	Testimonials []model.Testimonial
	Fallback     bool
	Notice       *Notice
	Form         service.TestimonialInput
	Occasions    []string
}

type servicesData struct {
	Services []model.Service
	Error    string
}

type eventsData struct {
	Events []model.Event
	Error  string
}

// PageHandler serves the read-only public pages.
type PageHandler struct {
	catalog service.CatalogService
	view    Renderer
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(catalog service.CatalogService, v Renderer) *PageHandler {
	return &PageHandler{catalog: catalog, view: v}
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, service.TestimonialInput{Occasion: model.DefaultOccasion}, nil)
}

// renderHome shows the home page with the review form prefilled from form.
func (h *PageHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, form service.TestimonialInput, n *Notice) {
	ts, fallback := h.catalog.HomeTestimonials(r.Context())
	h.view.Render(w, r, status, "home", view.Page{
		Title: "GP Flower Decorators",
		Nav:   "home",
		Data: homeData{
			Testimonials: ts,
			Fallback:     fallback,
			Notice:       n,
			Form:         form,
			Occasions:    model.Occasions,
		},
	})
}

// Services handles GET /services. A backend failure still renders the
// page, with an empty list and a banner.
func (h *PageHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := servicesData{}
	services, err := h.catalog.Services(r.Context())
	if err != nil {
		data.Error = service.DescribeLoadError(err, "Failed to load services")
	} else {
		data.Services = services
	}
	h.view.Render(w, r, http.StatusOK, "services", view.Page{Title: "Our Services", Nav: "services", Data: data})
}

// Events handles GET /events.
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	data := eventsData{}
	events, err := h.catalog.Events(r.Context())
	if err != nil {
		data.Error = service.DescribeLoadError(err, "Failed to load events")
	} else {
		data.Events = events
	}
	h.view.Render(w, r, http.StatusOK, "events", view.Page{Title: "Our Events", Nav: "events", Data: data})
}
