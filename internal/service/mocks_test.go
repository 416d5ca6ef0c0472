package service

import (
	"context"
	"time"

	"github.com/gpdecorators/site/internal/model"
)

// ---------------------------------------------------------------------------
// Function-field mocks for the backend repositories
// ---------------------------------------------------------------------------

type mockBookingRepository struct {
	listFunc    func(ctx context.Context) ([]model.Booking, error)
	createFunc  func(ctx context.Context, b *model.Booking) (model.BookingReceipt, error)
	approveFunc func(ctx context.Context, id string) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockBookingRepository) Create(ctx context.Context, b *model.Booking) (model.BookingReceipt, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	return model.BookingReceipt{}, nil
}

func (m *mockBookingRepository) Approve(ctx context.Context, id string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockContactRepository struct {
	listFunc     func(ctx context.Context) ([]model.Contact, error)
	createFunc   func(ctx context.Context, c *model.Contact) error
	markReadFunc func(ctx context.Context, id string) error
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactRepository) Create(ctx context.Context, c *model.Contact) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockContactRepository) MarkRead(ctx context.Context, id string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockServiceRepository struct {
	listFunc   func(ctx context.Context) ([]model.Service, error)
	createFunc func(ctx context.Context, s model.Service) (model.Service, error)
	updateFunc func(ctx context.Context, id string, s model.Service) (model.Service, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockServiceRepository) Create(ctx context.Context, s model.Service) (model.Service, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return s, nil
}

func (m *mockServiceRepository) Update(ctx context.Context, id string, s model.Service) (model.Service, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, s)
	}
	s.ID = id
	return s, nil
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockEventRepository struct {
	listFunc   func(ctx context.Context) ([]model.Event, error)
	createFunc func(ctx context.Context, in model.EventInput) (model.Event, error)
	updateFunc func(ctx context.Context, id string, in model.EventInput) (model.Event, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockEventRepository) List(ctx context.Context) ([]model.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockEventRepository) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return model.Event{Name: in.Name, Description: in.Description}, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, in model.EventInput) (model.Event, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return model.Event{ID: id, Name: in.Name, Description: in.Description}, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockTestimonialRepository struct {
	listFunc        func(ctx context.Context) ([]model.Testimonial, error)
	listPendingFunc func(ctx context.Context) ([]model.Testimonial, error)
	createFunc      func(ctx context.Context, t *model.Testimonial) error
	approveFunc     func(ctx context.Context, id string) error
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockTestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTestimonialRepository) ListPending(ctx context.Context) ([]model.Testimonial, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx)
	}
	return nil, nil
}

func (m *mockTestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return nil
}

func (m *mockTestimonialRepository) Approve(ctx context.Context, id string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil
}

func (m *mockTestimonialRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockSessionRepository struct {
	createFunc        func(ctx context.Context, s *model.Session) error
	findByTokenFunc   func(ctx context.Context, token string) (*model.Session, error)
	deleteByTokenFunc func(ctx context.Context, token string) error
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

type mockSender struct {
	sendFunc func(ctx context.Context, params map[string]string) error
}

func (m *mockSender) Send(ctx context.Context, params map[string]string) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, params)
	}
	return nil
}

// fakeClock is a settable clock for expiry tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
