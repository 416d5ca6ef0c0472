package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/gpdecorators/site/internal/model"
)

const (
	testimonialsPath = "/testimonials"

	testimonialListTimeout    = 15 * time.Second
	testimonialMutateTimeout  = 10 * time.Second
)

// TestimonialRepository is the backend's review collection.
type TestimonialRepository interface {
	// List returns the unfiltered collection (GET /testimonials).
	List(ctx context.Context) ([]model.Testimonial, error)
	// ListPending returns reviews awaiting moderation (GET /testimonials/pending).
	ListPending(ctx context.Context) ([]model.Testimonial, error)
	Create(ctx context.Context, t *model.Testimonial) error
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// APITestimonialRepository implements TestimonialRepository over the REST backend.
type APITestimonialRepository struct {
	client *Client
}

func NewAPITestimonialRepository(client *Client) *APITestimonialRepository {
	return &APITestimonialRepository{client: client}
}

var _ TestimonialRepository = (*APITestimonialRepository)(nil)

func (r *APITestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	return r.list(ctx, testimonialsPath)
}

func (r *APITestimonialRepository) ListPending(ctx context.Context) ([]model.Testimonial, error) {
	return r.list(ctx, testimonialsPath+"/pending")
}

func (r *APITestimonialRepository) list(ctx context.Context, path string) ([]model.Testimonial, error) {
	ctx, cancel := context.WithTimeout(ctx, testimonialListTimeout)
	defer cancel()

	body, err := r.client.getJSON(ctx, "testimonials", path)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Testimonial](body, "testimonials")
}

func (r *APITestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	_, err := r.client.sendJSON(ctx, "testimonials", http.MethodPost, testimonialsPath, t)
	return err
}

func (r *APITestimonialRepository) Approve(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, testimonialMutateTimeout)
	defer cancel()

	_, err := r.client.sendJSON(ctx, "testimonials", http.MethodPut, itemPath(testimonialsPath, id, "approve"), map[string]any{})
	return err
}

func (r *APITestimonialRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, testimonialMutateTimeout)
	defer cancel()

	_, err := r.client.sendJSON(ctx, "testimonials", http.MethodDelete, itemPath(testimonialsPath, id), nil)
	return err
}
