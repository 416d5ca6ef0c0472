package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gpdecorators/site/internal/model"
)

const bookingPath = "/booking"

// BookingRepository is the backend's booking collection.
type BookingRepository interface {
	List(ctx context.Context) ([]model.Booking, error)
	Create(ctx context.Context, b *model.Booking) (model.BookingReceipt, error)
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// APIBookingRepository implements BookingRepository over the REST backend.
type APIBookingRepository struct {
	client *Client
}

func NewAPIBookingRepository(client *Client) *APIBookingRepository {
	return &APIBookingRepository{client: client}
}

var _ BookingRepository = (*APIBookingRepository)(nil)

// List handles GET /booking; the body is an array or {"bookings": [...]}.
func (r *APIBookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	body, err := r.client.getJSON(ctx, "booking", bookingPath)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Booking](body, "bookings")
}

// Create posts a booking request and returns the id the backend assigned.
func (r *APIBookingRepository) Create(ctx context.Context, b *model.Booking) (model.BookingReceipt, error) {
	body, err := r.client.sendJSON(ctx, "booking", http.MethodPost, bookingPath, b)
	if err != nil {
		return model.BookingReceipt{}, err
	}
	receipt, err := decodeOne[model.BookingReceipt](body)
	if err != nil {
		return model.BookingReceipt{}, fmt.Errorf("create booking: %w", err)
	}
	return receipt, nil
}

func (r *APIBookingRepository) Approve(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "booking", http.MethodPut, itemPath(bookingPath, id, "approve"), nil)
	return err
}

func (r *APIBookingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "booking", http.MethodDelete, itemPath(bookingPath, id), nil)
	return err
}
