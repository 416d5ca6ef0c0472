package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
	"github.com/gpdecorators/site/pkg/auth"
)

// maxUploadBytes caps event image uploads.
const maxUploadBytes = 10 << 20

// ConsoleSource hands out the console for a session token.
type ConsoleSource interface {
	Get(sessionToken string) *service.Console
}

// AdminData is everything the admin templates read.
type AdminData struct {
	Toast     *service.Toast
	Tabs      []service.TabInfo
	Active    service.Tab
	Unread    int
	LoadError string

	Bookings []model.Booking
	Contacts []model.Contact

	Services    []model.Service
	ServiceForm service.ServiceForm

	Events    []model.Event
	EventForm service.EventForm

	EditingID string

	Testimonials []model.Testimonial
	View         service.TestimonialView
	Approvable   map[string]bool
}

type confirmData struct {
	Label  string
	Action string
	Tab    service.Tab
}

var deleteLabels = map[service.Tab]string{
	service.TabBookings:     "this booking",
	service.TabContacts:     "this inquiry",
	service.TabServices:     "this service",
	service.TabEvents:       "this event",
	service.TabTestimonials: "this review",
}

// AdminHandler serves the admin console. Every mutation is a POST that
// redirects back to its tab; results are shown as a toast.
type AdminHandler struct {
	consoles ConsoleSource
	view     Renderer
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(consoles ConsoleSource, v Renderer) *AdminHandler {
	return &AdminHandler{consoles: consoles, view: v}
}

func (h *AdminHandler) console(r *http.Request) *service.Console {
	return h.consoles.Get(auth.SessionTokenFromContext(r.Context()))
}

func backToTab(w http.ResponseWriter, r *http.Request, tab service.Tab) {
	http.Redirect(w, r, "/admin/"+string(tab), http.StatusSeeOther)
}

// Dashboard handles GET /admin by showing the current tab.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	c := h.console(r)
	h.show(w, r, c, c.Active())
}

// Tab handles GET /admin/{tab}.
func (h *AdminHandler) Tab(w http.ResponseWriter, r *http.Request) {
	tab, ok := service.ParseTab(r.PathValue("tab"))
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
		return
	}
	h.show(w, r, h.console(r), tab)
}

func (h *AdminHandler) show(w http.ResponseWriter, r *http.Request, c *service.Console, tab service.Tab) {
	if err := c.Open(r.Context(), tab); err != nil {
		slog.Warn("console tab load failed", "tab", tab, "error", err)
	}
	h.view.Render(w, r, http.StatusOK, "admin", view.Page{Title: "Admin", Nav: "admin", Data: adminData(c, tab)})
}

func adminData(c *service.Console, tab service.Tab) AdminData {
	d := AdminData{Tabs: service.Tabs, Active: tab, Unread: c.Contacts.Unread()}
	if t, ok := c.Notifier.Current(); ok {
		d.Toast = &t
	}
	switch tab {
	case service.TabBookings:
		d.Bookings = c.Bookings.Items()
		d.LoadError = c.Bookings.LoadError()
	case service.TabContacts:
		d.Contacts = c.Contacts.Items()
		d.LoadError = c.Contacts.LoadError()
	case service.TabServices:
		d.Services = c.Services.Items()
		d.ServiceForm, d.EditingID = c.Services.Form()
		d.LoadError = c.Services.LoadError()
	case service.TabEvents:
		d.Events = c.Events.Items()
		d.EventForm, d.EditingID = c.Events.Form()
		d.LoadError = c.Events.LoadError()
	case service.TabTestimonials:
		d.Testimonials = c.Testimonials.Items()
		d.View = c.Testimonials.View()
		d.Approvable = make(map[string]bool, len(d.Testimonials))
		for _, t := range d.Testimonials {
			d.Approvable[t.ID] = c.Testimonials.CanApprove(t)
		}
		d.LoadError = c.Testimonials.LoadError()
	}
	return d
}

// Reload handles POST /admin/{tab}/reload, the "Try again" after a failed load.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	tab, ok := service.ParseTab(r.PathValue("tab"))
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
		return
	}
	c := h.console(r)
	var err error
	switch tab {
	case service.TabBookings:
		err = c.Bookings.Load(r.Context())
	case service.TabContacts:
		err = c.Contacts.Load(r.Context())
	case service.TabServices:
		err = c.Services.Load(r.Context())
	case service.TabEvents:
		err = c.Events.Load(r.Context())
	case service.TabTestimonials:
		err = c.Testimonials.Load(r.Context())
	}
	logMutation("reload", tab, "", err)
	backToTab(w, r, tab)
}

// Delete handles POST /admin/{tab}/{id}/delete. Without confirm=yes it
// shows a confirmation page and changes nothing.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tab, ok := service.ParseTab(r.PathValue("tab"))
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
		return
	}
	id := r.PathValue("id")
	confirmed := r.PostFormValue("confirm") == "yes"
	c := h.console(r)

	var del func(ctx context.Context, id string, confirmed bool) error
	switch tab {
	case service.TabBookings:
		del = c.Bookings.Delete
	case service.TabContacts:
		del = c.Contacts.Delete
	case service.TabServices:
		del = c.Services.Delete
	case service.TabEvents:
		del = c.Events.Delete
	case service.TabTestimonials:
		del = c.Testimonials.Delete
	}

	err := del(r.Context(), id, confirmed)
	if errors.Is(err, service.ErrNotConfirmed) {
		h.view.Render(w, r, http.StatusOK, "confirm", view.Page{
			Title: "Confirm delete",
			Nav:   "admin",
			Data:  confirmData{Label: deleteLabels[tab], Action: r.URL.Path, Tab: tab},
		})
		return
	}
	logMutation("delete", tab, id, err)
	backToTab(w, r, tab)
}

// ApproveBooking handles POST /admin/bookings/{id}/approve.
func (h *AdminHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logMutation("approve", service.TabBookings, id, h.console(r).Bookings.Approve(r.Context(), id))
	backToTab(w, r, service.TabBookings)
}

// MarkContactRead handles POST /admin/contacts/{id}/read.
func (h *AdminHandler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logMutation("read", service.TabContacts, id, h.console(r).Contacts.MarkRead(r.Context(), id))
	backToTab(w, r, service.TabContacts)
}

// RefreshContacts handles POST /admin/contacts/refresh.
func (h *AdminHandler) RefreshContacts(w http.ResponseWriter, r *http.Request) {
	logMutation("refresh", service.TabContacts, "", h.console(r).Contacts.Refresh(r.Context()))
	backToTab(w, r, service.TabContacts)
}

// SaveService handles POST /admin/services (create or update).
func (h *AdminHandler) SaveService(w http.ResponseWriter, r *http.Request) {
	f := service.ServiceForm{
		Name:            r.PostFormValue("name"),
		Description:     r.PostFormValue("description"),
		Rating:          r.PostFormValue("rating"),
		Reviews:         r.PostFormValue("reviews"),
		Duration:        r.PostFormValue("duration"),
		GuestCapacity:   r.PostFormValue("guestCapacity"),
		PriceOriginal:   r.PostFormValue("priceOriginal"),
		PriceDiscounted: r.PostFormValue("priceDiscounted"),
	}
	_, err := h.console(r).Services.Submit(r.Context(), f)
	logMutation("save", service.TabServices, "", err)
	backToTab(w, r, service.TabServices)
}

// EditService handles POST /admin/services/{id}/edit.
func (h *AdminHandler) EditService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logMutation("edit", service.TabServices, id, h.console(r).Services.Edit(id))
	backToTab(w, r, service.TabServices)
}

// CancelService handles POST /admin/services/cancel.
func (h *AdminHandler) CancelService(w http.ResponseWriter, r *http.Request) {
	h.console(r).Services.Cancel()
	backToTab(w, r, service.TabServices)
}

// SaveEvent handles POST /admin/events, a multipart upload.
func (h *AdminHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	c := h.console(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Info("unreadable event upload", "error", err)
		c.Notifier.Error("Server rejected the file (check size)")
		backToTab(w, r, service.TabEvents)
		return
	}
	in := model.EventInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	img, err := readImage(r)
	if err != nil {
		slog.Info("unreadable event image", "error", err)
		c.Notifier.Error("Server rejected the file (check size)")
		backToTab(w, r, service.TabEvents)
		return
	}
	in.Image = img

	_, err = c.Events.Submit(r.Context(), in)
	logMutation("save", service.TabEvents, "", err)
	backToTab(w, r, service.TabEvents)
}

var errImageTooLarge = errors.New("image exceeds upload limit")

// readImage returns the uploaded "image" part, or nil when none was sent.
func readImage(r *http.Request) (*model.ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if header.Size > maxUploadBytes {
		return nil, errImageTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return &model.ImageUpload{Filename: header.Filename, ContentType: ct, Data: data}, nil
}

// EditEvent handles POST /admin/events/{id}/edit.
func (h *AdminHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logMutation("edit", service.TabEvents, id, h.console(r).Events.Edit(id))
	backToTab(w, r, service.TabEvents)
}

// CancelEvent handles POST /admin/events/cancel.
func (h *AdminHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	h.console(r).Events.Cancel()
	backToTab(w, r, service.TabEvents)
}

// SetTestimonialView handles POST /admin/testimonials/view.
func (h *AdminHandler) SetTestimonialView(w http.ResponseWriter, r *http.Request) {
	v, ok := service.ParseTestimonialView(r.PostFormValue("view"))
	if !ok {
		renderError(h.view, w, r, http.StatusBadRequest, "Unknown review filter.")
		return
	}
	logMutation("view", service.TabTestimonials, "", h.console(r).SetTestimonialView(r.Context(), v))
	backToTab(w, r, service.TabTestimonials)
}

// ApproveTestimonial handles POST /admin/testimonials/{id}/approve.
func (h *AdminHandler) ApproveTestimonial(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logMutation("approve", service.TabTestimonials, id, h.console(r).Testimonials.Approve(r.Context(), id))
	backToTab(w, r, service.TabTestimonials)
}

// logMutation records a console action at debug level. Failures are
// already logged and toasted by the panel.
func logMutation(action string, tab service.Tab, id string, err error) {
	if err != nil {
		slog.Debug("console action failed", "action", action, "tab", tab, "id", id, "error", err)
		return
	}
	slog.Debug("console action", "action", action, "tab", tab, "id", id)
}
