package service

import (
	"context"
	"sync"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// TestimonialView selects which reviews the moderation tab lists.
type TestimonialView string

const (
	ViewPending TestimonialView = "pending"
	ViewAll     TestimonialView = "all"
)

// ParseTestimonialView maps a query value to a view.
func ParseTestimonialView(s string) (TestimonialView, bool) {
	switch TestimonialView(s) {
	case ViewPending:
		return ViewPending, true
	case ViewAll:
		return ViewAll, true
	}
	return "", false
}

// TestimonialsPanel is the review moderation tab.
type TestimonialsPanel struct {
	*Panel[model.Testimonial]
	repo repository.TestimonialRepository

	viewMu sync.Mutex
	view   TestimonialView
}

func NewTestimonialsPanel(repo repository.TestimonialRepository, n *Notifier) *TestimonialsPanel {
	return &TestimonialsPanel{
		Panel: newPanel[model.Testimonial]("testimonials", n, objectIDCheck("Invalid testimonial ID")),
		repo:  repo,
		view:  ViewPending,
	}
}

func (p *TestimonialsPanel) View() TestimonialView {
	p.viewMu.Lock()
	defer p.viewMu.Unlock()
	return p.view
}

// Mount reloads the current view.
func (p *TestimonialsPanel) Mount(ctx context.Context) error {
	p.reset()
	return p.Load(ctx)
}

// SetView switches between pending and all. Switching discards the list
// and fetches again; selecting the current view does nothing.
func (p *TestimonialsPanel) SetView(ctx context.Context, v TestimonialView) error {
	if !p.selectView(v) {
		return nil
	}
	return p.Load(ctx)
}

// selectView switches the view and discards the list without fetching.
// It reports whether the view changed.
func (p *TestimonialsPanel) selectView(v TestimonialView) bool {
	p.viewMu.Lock()
	if v == p.view {
		p.viewMu.Unlock()
		return false
	}
	p.view = v
	p.viewMu.Unlock()

	p.reset()
	return true
}

// Load fetches the list for the current view.
func (p *TestimonialsPanel) Load(ctx context.Context) error {
	v := p.View()
	fetch := p.repo.List
	if v == ViewPending {
		fetch = p.repo.ListPending
	}
	return p.load(ctx, fetch, "Failed to fetch "+string(v)+" testimonials")
}

// CanApprove reports whether t gets an approve action in the current view.
func (p *TestimonialsPanel) CanApprove(t model.Testimonial) bool {
	return p.View() == ViewPending && !t.IsApproved
}

// Approve publishes a pending review and removes it from the pending list.
func (p *TestimonialsPanel) Approve(ctx context.Context, id string) error {
	o := outcome{action: "approve", ok: "Review published successfully!", fail: "Failed to approve review"}
	if p.View() != ViewPending {
		return p.fail(id, o, invalid("view", "Switch to pending reviews to approve"))
	}
	err := p.patch(ctx, id,
		func(ctx context.Context) error { return p.repo.Approve(ctx, id) },
		func(t model.Testimonial) model.Testimonial {
			t.IsApproved = true
			return t
		},
		o,
	)
	if err != nil {
		return err
	}
	p.drop(id)
	return nil
}

func (p *TestimonialsPanel) Delete(ctx context.Context, id string, confirmed bool) error {
	return p.remove(ctx, id, confirmed,
		func(ctx context.Context) error { return p.repo.Delete(ctx, id) },
		outcome{action: "delete", ok: "Review deleted successfully!", fail: "Failed to delete review"},
	)
}
