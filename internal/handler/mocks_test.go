package handler

import (
	"context"
	"net/http"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
)

// ---------------------------------------------------------------------------
// Renderer
// ---------------------------------------------------------------------------

// recordingRenderer captures the last rendered page instead of executing
// templates.
type recordingRenderer struct {
	status int
	name   string
	page   view.Page
	calls  int
}

func (r *recordingRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, name string, p view.Page) {
	r.status, r.name, r.page = status, name, p
	r.calls++
	w.WriteHeader(status)
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

type mockDocs struct {
	loadFunc func(name string) ([]byte, error)
}

func (m *mockDocs) Load(name string) ([]byte, error) {
	if m.loadFunc != nil {
		return m.loadFunc(name)
	}
	return nil, view.ErrNoDocument
}

// ---------------------------------------------------------------------------
// CatalogService
// ---------------------------------------------------------------------------

type mockCatalog struct {
	homeFunc     func(ctx context.Context) ([]model.Testimonial, bool)
	servicesFunc func(ctx context.Context) ([]model.Service, error)
	eventsFunc   func(ctx context.Context) ([]model.Event, error)
}

var _ service.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) HomeTestimonials(ctx context.Context) ([]model.Testimonial, bool) {
	if m.homeFunc != nil {
		return m.homeFunc(ctx)
	}
	return nil, false
}

func (m *mockCatalog) Services(ctx context.Context) ([]model.Service, error) {
	if m.servicesFunc != nil {
		return m.servicesFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) Events(ctx context.Context) ([]model.Event, error) {
	if m.eventsFunc != nil {
		return m.eventsFunc(ctx)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// SubmissionService
// ---------------------------------------------------------------------------

type mockSubmissions struct {
	contactFunc     func(ctx context.Context, in service.ContactInput) (service.Acknowledgment, error)
	bookingFunc     func(ctx context.Context, in service.BookingInput) (service.Acknowledgment, error)
	testimonialFunc func(ctx context.Context, in service.TestimonialInput) (service.Acknowledgment, error)
}

var _ service.SubmissionService = (*mockSubmissions)(nil)

func (m *mockSubmissions) SubmitContact(ctx context.Context, in service.ContactInput) (service.Acknowledgment, error) {
	if m.contactFunc != nil {
		return m.contactFunc(ctx, in)
	}
	return service.Acknowledgment{Outcome: service.Delivered, Message: "ok"}, nil
}

func (m *mockSubmissions) SubmitBooking(ctx context.Context, in service.BookingInput) (service.Acknowledgment, error) {
	if m.bookingFunc != nil {
		return m.bookingFunc(ctx, in)
	}
	return service.Acknowledgment{Outcome: service.Delivered, Message: "ok"}, nil
}

func (m *mockSubmissions) SubmitTestimonial(ctx context.Context, in service.TestimonialInput) (service.Acknowledgment, error) {
	if m.testimonialFunc != nil {
		return m.testimonialFunc(ctx, in)
	}
	return service.Acknowledgment{Outcome: service.Delivered, Message: "ok"}, nil
}

// ---------------------------------------------------------------------------
// Console repositories
// ---------------------------------------------------------------------------

type mockBookingRepo struct {
	listFunc    func(ctx context.Context) ([]model.Booking, error)
	approveFunc func(ctx context.Context, id string) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockBookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockBookingRepo) Create(context.Context, *model.Booking) (model.BookingReceipt, error) {
	return model.BookingReceipt{}, nil
}

func (m *mockBookingRepo) Approve(ctx context.Context, id string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockContactRepo struct {
	listFunc     func(ctx context.Context) ([]model.Contact, error)
	markReadFunc func(ctx context.Context, id string) error
}

func (m *mockContactRepo) List(ctx context.Context) ([]model.Contact, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactRepo) Create(context.Context, *model.Contact) error { return nil }

func (m *mockContactRepo) MarkRead(ctx context.Context, id string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

func (m *mockContactRepo) Delete(context.Context, string) error { return nil }

type mockServiceRepo struct {
	listFunc   func(ctx context.Context) ([]model.Service, error)
	createFunc func(ctx context.Context, s model.Service) (model.Service, error)
	updateFunc func(ctx context.Context, id string, s model.Service) (model.Service, error)
}

func (m *mockServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockServiceRepo) Create(ctx context.Context, s model.Service) (model.Service, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	s.ID = "new-service"
	return s, nil
}

func (m *mockServiceRepo) Update(ctx context.Context, id string, s model.Service) (model.Service, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, s)
	}
	s.ID = id
	return s, nil
}

func (m *mockServiceRepo) Delete(context.Context, string) error { return nil }

type mockEventRepo struct {
	listFunc   func(ctx context.Context) ([]model.Event, error)
	createFunc func(ctx context.Context, in model.EventInput) (model.Event, error)
}

func (m *mockEventRepo) List(ctx context.Context) ([]model.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockEventRepo) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return model.Event{ID: "new-event", Name: in.Name}, nil
}

func (m *mockEventRepo) Update(_ context.Context, id string, in model.EventInput) (model.Event, error) {
	return model.Event{ID: id, Name: in.Name}, nil
}

func (m *mockEventRepo) Delete(context.Context, string) error { return nil }

type mockTestimonialRepo struct {
	listFunc        func(ctx context.Context) ([]model.Testimonial, error)
	listPendingFunc func(ctx context.Context) ([]model.Testimonial, error)
	approveFunc     func(ctx context.Context, id string) error
}

func (m *mockTestimonialRepo) List(ctx context.Context) ([]model.Testimonial, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTestimonialRepo) ListPending(ctx context.Context) ([]model.Testimonial, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx)
	}
	return nil, nil
}

func (m *mockTestimonialRepo) Create(context.Context, *model.Testimonial) error { return nil }

func (m *mockTestimonialRepo) Approve(ctx context.Context, id string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil
}

func (m *mockTestimonialRepo) Delete(context.Context, string) error { return nil }

// consoleRepos returns repos with no-op defaults; tests override fields.
func consoleRepos() (service.ConsoleRepos, *mockBookingRepo, *mockContactRepo, *mockServiceRepo, *mockEventRepo, *mockTestimonialRepo) {
	b, c, s, e, t := &mockBookingRepo{}, &mockContactRepo{}, &mockServiceRepo{}, &mockEventRepo{}, &mockTestimonialRepo{}
	return service.ConsoleRepos{Bookings: b, Contacts: c, Services: s, Events: e, Testimonials: t}, b, c, s, e, t
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

type mockAuthService struct {
	googleFunc func(ctx context.Context, info *service.GoogleUserInfo) (*model.Session, error)
	githubFunc func(ctx context.Context, info *service.GitHubUserInfo) (*model.Session, error)
}

var _ service.AuthService = (*mockAuthService)(nil)

func (m *mockAuthService) SignInWithGoogle(ctx context.Context, info *service.GoogleUserInfo) (*model.Session, error) {
	if m.googleFunc != nil {
		return m.googleFunc(ctx, info)
	}
	return &model.Session{Token: "google-token", Email: info.Email}, nil
}

func (m *mockAuthService) SignInWithGitHub(ctx context.Context, info *service.GitHubUserInfo) (*model.Session, error) {
	if m.githubFunc != nil {
		return m.githubFunc(ctx, info)
	}
	return &model.Session{Token: "github-token", Email: info.Email}, nil
}

type mockSessionEnder struct {
	deleted []string
}

func (m *mockSessionEnder) DeleteSession(_ context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

type mockDropper struct {
	dropped []string
}

func (m *mockDropper) Drop(token string) { m.dropped = append(m.dropped, token) }
