package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/gpdecorators/site/internal/metrics"
	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
	"github.com/gpdecorators/site/pkg/emailjs"
)

// Outcome says whether the backend confirmed a public submission.
type Outcome string

const (
	// Delivered means the backend accepted the submission.
	Delivered Outcome = "delivered"
	// Unconfirmed means the backend call failed but the visitor is still
	// told the request was received.
	Unconfirmed Outcome = "unconfirmed"
)

// Acknowledgment is what the visitor sees after submitting a form.
type Acknowledgment struct {
	Outcome   Outcome
	Message   string
	BookingID string
}

// Delivered reports whether the form can be cleared.
func (a Acknowledgment) Delivered() bool { return a.Outcome == Delivered }

// ContactInput is the contact form.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// BookingInput is the BookNow form.
type BookingInput struct {
	Name      string
	Email     string
	Phone     string
	Service   string
	EventDate string
	Budget    string
	Message   string
}

// OtherOccasion is the occasion choice that reveals a free-text field.
const OtherOccasion = "Other"

// TestimonialInput is the review form on the home page.
type TestimonialInput struct {
	Name        string
	Message     string
	Rating      int
	Occasion    string
	CustomEvent string
}

// SubmissionService handles the three public forms. The only error it
// returns is a *ValidationError; backend failures become an Unconfirmed
// acknowledgment.
type SubmissionService interface {
	SubmitContact(ctx context.Context, in ContactInput) (Acknowledgment, error)
	SubmitBooking(ctx context.Context, in BookingInput) (Acknowledgment, error)
	SubmitTestimonial(ctx context.Context, in TestimonialInput) (Acknowledgment, error)
}

type submissionServiceImpl struct {
	contacts     repository.ContactRepository
	bookings     repository.BookingRepository
	testimonials repository.TestimonialRepository
	email        emailjs.Sender
}

// NewSubmissionService creates a SubmissionService. email may be nil, in
// which case inquiries are saved with emailSent=false.
func NewSubmissionService(
	contacts repository.ContactRepository,
	bookings repository.BookingRepository,
	testimonials repository.TestimonialRepository,
	email emailjs.Sender,
) SubmissionService {
	return &submissionServiceImpl{contacts: contacts, bookings: bookings, testimonials: testimonials, email: email}
}

// SubmitContact sends the notification email first, then saves the
// inquiry. A failed email never blocks the save.
func (s *submissionServiceImpl) SubmitContact(ctx context.Context, in ContactInput) (Acknowledgment, error) {
	return rejectInvalid("contact")(s.submitContact(ctx, in))
}

func (s *submissionServiceImpl) submitContact(ctx context.Context, in ContactInput) (Acknowledgment, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email, "message": in.Message}); err != nil {
		return Acknowledgment{}, err
	}
	if err := checkEmail(in.Email); err != nil {
		return Acknowledgment{}, err
	}

	emailSent := s.sendEmail(ctx, in)

	err := s.contacts.Create(ctx, &model.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		EmailSent: emailSent,
		Read:      false,
	})
	if err != nil {
		return unconfirmed("contact", err,
			"Your inquiry was received. If you do not hear from us soon, please contact us directly."), nil
	}
	return delivered("contact", Acknowledgment{Message: "We have received your inquiry successfully."}), nil
}

func (s *submissionServiceImpl) sendEmail(ctx context.Context, in ContactInput) bool {
	if s.email == nil {
		return false
	}
	err := s.email.Send(ctx, map[string]string{
		"from_name":  in.Name,
		"from_email": in.Email,
		"message":    in.Message,
	})
	if errors.Is(err, emailjs.ErrNotConfigured) {
		return false
	}
	metrics.IncEmailDispatch(err == nil)
	if err != nil {
		slog.Warn("contact email dispatch failed", "error", err)
		return false
	}
	return true
}

func (s *submissionServiceImpl) SubmitBooking(ctx context.Context, in BookingInput) (Acknowledgment, error) {
	return rejectInvalid("booking")(s.submitBooking(ctx, in))
}

func (s *submissionServiceImpl) submitBooking(ctx context.Context, in BookingInput) (Acknowledgment, error) {
	b := &model.Booking{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Service:   strings.TrimSpace(in.Service),
		EventDate: strings.TrimSpace(in.EventDate),
		Budget:    model.Flex(strings.TrimSpace(in.Budget)),
		Message:   strings.TrimSpace(in.Message),
	}
	err := requireFields(map[string]string{
		"name": b.Name, "email": b.Email, "phone": b.Phone, "service": b.Service,
		"eventDate": b.EventDate, "budget": b.Budget.String(), "message": b.Message,
	})
	if err != nil {
		return Acknowledgment{}, err
	}
	if err := checkEmail(b.Email); err != nil {
		return Acknowledgment{}, err
	}

	receipt, err := s.bookings.Create(ctx, b)
	if err != nil {
		msg := "Booking request received! We will contact you within 24 hours."
		if _, ok := repository.AsAPIError(err); ok {
			msg = "Booking submitted! We'll contact you soon."
		}
		return unconfirmed("booking", err, msg), nil
	}
	return delivered("booking", Acknowledgment{
		Message:   fmt.Sprintf("Booking confirmed! Your Booking ID: %s", receipt.BookingID),
		BookingID: receipt.BookingID,
	}), nil
}

// SubmitTestimonial posts a review for moderation. A rating of 0 means no
// star was picked and is refused before any backend call.
func (s *submissionServiceImpl) SubmitTestimonial(ctx context.Context, in TestimonialInput) (Acknowledgment, error) {
	return rejectInvalid("testimonial")(s.submitTestimonial(ctx, in))
}

func (s *submissionServiceImpl) submitTestimonial(ctx context.Context, in TestimonialInput) (Acknowledgment, error) {
	if in.Rating == 0 {
		return Acknowledgment{}, invalid("rating", "Please select a star rating")
	}
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return Acknowledgment{}, invalid("rating", fmt.Sprintf("Rating must be between %d and %d", model.MinRating, model.MaxRating))
	}

	occasion := strings.TrimSpace(in.Occasion)
	switch occasion {
	case "":
		occasion = model.DefaultOccasion
	case OtherOccasion:
		occasion = strings.TrimSpace(in.CustomEvent)
	}
	t := &model.Testimonial{
		Name:     strings.TrimSpace(in.Name),
		Message:  strings.TrimSpace(in.Message),
		Rating:   in.Rating,
		Occasion: occasion,
	}
	if err := requireFields(map[string]string{"name": t.Name, "message": t.Message, "occasion": t.Occasion}); err != nil {
		return Acknowledgment{}, err
	}

	if err := s.testimonials.Create(ctx, t); err != nil {
		return unconfirmed("testimonial", err,
			"Thank you! Your story was received and will appear once approved."), nil
	}
	return delivered("testimonial", Acknowledgment{Message: "Success! Your story has been sent for approval."}), nil
}

func rejectInvalid(form string) func(Acknowledgment, error) (Acknowledgment, error) {
	return func(ack Acknowledgment, err error) (Acknowledgment, error) {
		if err != nil {
			metrics.IncFormSubmission(form, "invalid")
			slog.Info("form input rejected", "form", form, "error", err)
		}
		return ack, err
	}
}

func delivered(form string, ack Acknowledgment) Acknowledgment {
	ack.Outcome = Delivered
	metrics.IncFormSubmission(form, string(Delivered))
	slog.Info("form submitted", "form", form, "outcome", Delivered)
	return ack
}

func unconfirmed(form string, err error, msg string) Acknowledgment {
	metrics.IncFormSubmission(form, string(Unconfirmed))
	slog.Warn("form submission not confirmed by backend", "form", form, "error", err)
	return Acknowledgment{Outcome: Unconfirmed, Message: msg}
}

// requireFields returns a ValidationError for the first empty field, in a
// stable order.
func requireFields(fields map[string]string) error {
	for _, name := range requiredOrder {
		v, ok := fields[name]
		if ok && v == "" {
			return invalid(name, "Please fill in all required fields")
		}
	}
	return nil
}

var requiredOrder = []string{"name", "email", "phone", "service", "eventDate", "budget", "message", "occasion"}

func checkEmail(addr string) error {
	if _, err := mail.ParseAddress(addr); err != nil {
		return invalid("email", "Please enter a valid email address")
	}
	return nil
}
