package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

func TestHomeTestimonials_ApprovedOnly(t *testing.T) {
	repo := &mockTestimonialRepository{listFunc: func(context.Context) ([]model.Testimonial, error) {
		return []model.Testimonial{{Name: "a", IsApproved: true}, {Name: "b"}}, nil
	}}
	svc := NewCatalogService(nil, nil, repo)

	ts, fallback := svc.HomeTestimonials(context.Background())
	if fallback {
		t.Error("unexpected fallback")
	}
	if len(ts) != 1 || ts[0].Name != "a" {
		t.Errorf("expected only approved, got %+v", ts)
	}
}

func TestHomeTestimonials_FallbackOnError(t *testing.T) {
	repo := &mockTestimonialRepository{listFunc: func(context.Context) ([]model.Testimonial, error) {
		return nil, context.DeadlineExceeded
	}}
	svc := NewCatalogService(nil, nil, repo)

	ts, fallback := svc.HomeTestimonials(context.Background())
	if !fallback || len(ts) != 2 || ts[0].Name != "Rahul S." {
		t.Errorf("expected built-in reviews, got %+v fallback=%v", ts, fallback)
	}
}

func TestHomeTestimonials_HasDeadline(t *testing.T) {
	repo := &mockTestimonialRepository{listFunc: func(ctx context.Context) ([]model.Testimonial, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the home fetch")
		}
		return nil, nil
	}}
	NewCatalogService(nil, nil, repo).HomeTestimonials(context.Background())
}

func TestDescribeLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server with message", &repository.APIError{StatusCode: 502, Message: "Bad gateway"}, "Server Error: 502 - Bad gateway"},
		{"server without message", &repository.APIError{StatusCode: 500}, "Server Error: 500 - Failed to load events"},
		{"network", fmt.Errorf("wrap: %w", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}), "Network Error: No response from server. Please check your connection."},
		{"timeout", context.DeadlineExceeded, "Network Error: No response from server. Please check your connection."},
		{"other", errors.New("unexpected response shape"), "Error: Failed to load events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeLoadError(tt.err, "Failed to load events"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogEvents_WrapsError(t *testing.T) {
	apiErr := &repository.APIError{StatusCode: 500}
	svc := NewCatalogService(nil, &mockEventRepository{listFunc: func(context.Context) ([]model.Event, error) {
		return nil, apiErr
	}}, nil)

	_, err := svc.Events(context.Background())
	if _, ok := repository.AsAPIError(err); !ok {
		t.Errorf("expected APIError in chain, got %v", err)
	}
}
