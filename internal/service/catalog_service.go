package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// homeFetchTimeout bounds the home page review fetch; after it the
// built-in reviews are shown instead.
const homeFetchTimeout = 8 * time.Second

// CatalogService serves the read-only public pages.
type CatalogService interface {
	// HomeTestimonials returns approved reviews, or the built-in ones when
	// the backend cannot be reached. fallback reports which.
	HomeTestimonials(ctx context.Context) (ts []model.Testimonial, fallback bool)
	Services(ctx context.Context) ([]model.Service, error)
	// Events returns the gallery. Render failures with DescribeLoadError.
	Events(ctx context.Context) ([]model.Event, error)
}

type catalogServiceImpl struct {
	services     repository.ServiceRepository
	events       repository.EventRepository
	testimonials repository.TestimonialRepository
}

func NewCatalogService(
	services repository.ServiceRepository,
	events repository.EventRepository,
	testimonials repository.TestimonialRepository,
) CatalogService {
	return &catalogServiceImpl{services: services, events: events, testimonials: testimonials}
}

func (s *catalogServiceImpl) HomeTestimonials(ctx context.Context) ([]model.Testimonial, bool) {
	ctx, cancel := context.WithTimeout(ctx, homeFetchTimeout)
	defer cancel()

	ts, err := s.testimonials.List(ctx)
	if err != nil {
		slog.Warn("home testimonials unavailable, using fallback", "error", err)
		return model.FallbackTestimonials(), true
	}
	return model.ApprovedOnly(ts), false
}

func (s *catalogServiceImpl) Services(ctx context.Context) ([]model.Service, error) {
	list, err := s.services.List(ctx)
	if err != nil {
		slog.Warn("list services failed", "error", err)
		return nil, fmt.Errorf("list services: %w", err)
	}
	return list, nil
}

func (s *catalogServiceImpl) Events(ctx context.Context) ([]model.Event, error) {
	list, err := s.events.List(ctx)
	if err != nil {
		slog.Warn("list events failed", "error", err)
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

// DescribeLoadError turns a backend error into the banner shown on the
// gallery page: a server answer, no answer at all, or anything else.
func DescribeLoadError(err error, fallback string) string {
	if apiErr, ok := repository.AsAPIError(err); ok {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return fmt.Sprintf("Server Error: %d - %s", apiErr.StatusCode, msg)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return "Network Error: No response from server. Please check your connection."
	}
	return "Error: " + fallback
}
