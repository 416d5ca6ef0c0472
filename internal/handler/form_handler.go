package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
)

// maxFormBytes caps public form bodies.
const maxFormBytes = 64 << 10

type contactData struct {
	Form   service.ContactInput
	Notice *Notice
}

type bookData struct {
	Form     service.BookingInput
	Services []string
	Notice   *Notice
}

// FormHandler serves the public contact, booking and review forms.
type FormHandler struct {
	submissions service.SubmissionService
	pages       *PageHandler
	view        Renderer
}

// NewFormHandler creates a FormHandler. pages re-renders the home page
// after a review submission.
func NewFormHandler(submissions service.SubmissionService, pages *PageHandler, v Renderer) *FormHandler {
	return &FormHandler{submissions: submissions, pages: pages, view: v}
}

// ContactPage handles GET /contact.
func (h *FormHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, contactData{})
}

// SubmitContact handles POST /contact.
func (h *FormHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		h.renderContact(w, r, http.StatusBadRequest, contactData{Notice: errorNotice("Could not read the form. Please try again.")})
		return
	}
	in := service.ContactInput{
		Name:    r.PostFormValue("from_name"),
		Email:   r.PostFormValue("from_email"),
		Message: r.PostFormValue("message"),
	}
	ack, err := h.submissions.SubmitContact(r.Context(), in)
	if err != nil {
		h.renderContact(w, r, formErrorStatus(err), contactData{Form: in, Notice: errorNotice(validationMessage(err))})
		return
	}
	if ack.Delivered() {
		in = service.ContactInput{}
	}
	h.renderContact(w, r, http.StatusOK, contactData{Form: in, Notice: noticeFor(ack)})
}

func (h *FormHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, d contactData) {
	h.view.Render(w, r, status, "contact", view.Page{Title: "Contact Us", Nav: "contact", Data: d})
}

// BookPage handles GET /book.
func (h *FormHandler) BookPage(w http.ResponseWriter, r *http.Request) {
	h.renderBook(w, r, http.StatusOK, bookData{})
}

// SubmitBooking handles POST /book.
func (h *FormHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		h.renderBook(w, r, http.StatusBadRequest, bookData{Notice: errorNotice("Could not read the form. Please try again.")})
		return
	}
	in := service.BookingInput{
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Phone:     r.PostFormValue("phone"),
		Service:   r.PostFormValue("service"),
		EventDate: r.PostFormValue("eventDate"),
		Budget:    r.PostFormValue("budget"),
		Message:   r.PostFormValue("message"),
	}
	ack, err := h.submissions.SubmitBooking(r.Context(), in)
	if err != nil {
		h.renderBook(w, r, formErrorStatus(err), bookData{Form: in, Notice: errorNotice(validationMessage(err))})
		return
	}
	if ack.Delivered() {
		in = service.BookingInput{}
	}
	h.renderBook(w, r, http.StatusOK, bookData{Form: in, Notice: noticeFor(ack)})
}

func (h *FormHandler) renderBook(w http.ResponseWriter, r *http.Request, status int, d bookData) {
	d.Services = model.BookingServices
	h.view.Render(w, r, status, "book", view.Page{Title: "Book Now", Nav: "book", Data: d})
}

// SubmitTestimonial handles POST /testimonials from the home page.
func (h *FormHandler) SubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	blank := service.TestimonialInput{Occasion: model.DefaultOccasion}
	if !parseForm(w, r) {
		h.pages.renderHome(w, r, http.StatusBadRequest, blank, errorNotice("Could not read the form. Please try again."))
		return
	}
	rating, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))
	in := service.TestimonialInput{
		Name:        r.PostFormValue("name"),
		Message:     r.PostFormValue("message"),
		Rating:      rating,
		Occasion:    r.PostFormValue("occasion"),
		CustomEvent: r.PostFormValue("customEvent"),
	}
	ack, err := h.submissions.SubmitTestimonial(r.Context(), in)
	if err != nil {
		h.pages.renderHome(w, r, formErrorStatus(err), in, errorNotice(validationMessage(err)))
		return
	}
	if ack.Delivered() {
		in = blank
	}
	h.pages.renderHome(w, r, http.StatusOK, in, noticeFor(ack))
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		slog.Info("unreadable form", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func formErrorStatus(err error) int {
	if errors.Is(err, service.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// validationMessage returns the user-facing text for err. Anything that is
// not a validation error gets a generic message.
func validationMessage(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	slog.Error("unexpected form error", "error", err)
	return "Something went wrong. Please try again later."
}
