package service

import (
	"context"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// BookingsPanel lists booking requests and lets an admin approve or delete them.
type BookingsPanel struct {
	*Panel[model.Booking]
	repo repository.BookingRepository
}

func NewBookingsPanel(repo repository.BookingRepository, n *Notifier) *BookingsPanel {
	return &BookingsPanel{Panel: newPanel[model.Booking]("booking", n, nil), repo: repo}
}

func (p *BookingsPanel) Mount(ctx context.Context) error {
	p.reset()
	return p.Load(ctx)
}

func (p *BookingsPanel) Load(ctx context.Context) error {
	return p.load(ctx, p.repo.List, "Failed to load bookings")
}

// Approve issues PUT /booking/{id}/approve and flips only that booking.
func (p *BookingsPanel) Approve(ctx context.Context, id string) error {
	return p.patch(ctx, id,
		func(ctx context.Context) error { return p.repo.Approve(ctx, id) },
		func(b model.Booking) model.Booking {
			b.Status = model.BookingApproved
			return b
		},
		outcome{action: "approve", ok: "Booking approved successfully!", fail: "Failed to approve booking"},
	)
}

func (p *BookingsPanel) Delete(ctx context.Context, id string, confirmed bool) error {
	return p.remove(ctx, id, confirmed,
		func(ctx context.Context) error { return p.repo.Delete(ctx, id) },
		outcome{action: "delete", ok: "Booking deleted.", fail: "Failed to delete"},
	)
}
