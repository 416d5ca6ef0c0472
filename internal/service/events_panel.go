package service

import (
	"context"
	"strings"
	"sync"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// EventForm holds the text fields of the gallery form. The image file is
// never kept between requests.
type EventForm struct {
	Name        string
	Description string
}

// EventsPanel manages the gallery. Create requires an image; update keeps
// the stored image unless a new file is sent.
type EventsPanel struct {
	*Panel[model.Event]
	repo repository.EventRepository

	formMu    sync.Mutex
	form      EventForm
	editingID string
}

func NewEventsPanel(repo repository.EventRepository, n *Notifier) *EventsPanel {
	return &EventsPanel{Panel: newPanel[model.Event]("events", n, nil), repo: repo}
}

func (p *EventsPanel) Mount(ctx context.Context) error {
	p.reset()
	p.Cancel()
	return p.Load(ctx)
}

func (p *EventsPanel) Load(ctx context.Context) error {
	return p.load(ctx, p.repo.List, "Failed to load events")
}

func (p *EventsPanel) Form() (EventForm, string) {
	p.formMu.Lock()
	defer p.formMu.Unlock()
	return p.form, p.editingID
}

// Edit loads a listed event into the form.
func (p *EventsPanel) Edit(id string) error {
	ev, ok := p.Find(id)
	if !ok {
		p.notifier.Error("Event not found")
		return repository.ErrNotFound
	}
	p.formMu.Lock()
	p.form = EventForm{Name: ev.Name, Description: ev.Description}
	p.editingID = id
	p.formMu.Unlock()
	return nil
}

func (p *EventsPanel) Cancel() {
	p.formMu.Lock()
	p.form = EventForm{}
	p.editingID = ""
	p.formMu.Unlock()
}

// Submit uploads a new event, or updates the one in edit mode.
func (p *EventsPanel) Submit(ctx context.Context, in model.EventInput) (model.Event, error) {
	p.formMu.Lock()
	p.form = EventForm{Name: in.Name, Description: in.Description}
	editingID := p.editingID
	p.formMu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		p.notifier.Error("Event title is required")
		return model.Event{}, invalid("name", "Event title is required")
	}
	if editingID == "" && (in.Image == nil || len(in.Image.Data) == 0) {
		p.notifier.Error("Please select an image")
		return model.Event{}, invalid("image", "Please select an image")
	}

	var (
		saved model.Event
		err   error
	)
	if editingID != "" {
		saved, err = p.replace(ctx, editingID,
			func(ctx context.Context) (model.Event, error) { return p.repo.Update(ctx, editingID, in) },
			outcome{action: "update", ok: "Event updated!", failText: uploadFailure},
		)
	} else {
		saved, err = p.create(ctx,
			func(ctx context.Context) (model.Event, error) { return p.repo.Create(ctx, in) },
			outcome{action: "create", ok: "Event uploaded!", failText: uploadFailure},
		)
	}
	if err != nil {
		return model.Event{}, err
	}
	p.Cancel()
	return saved, nil
}

func (p *EventsPanel) Delete(ctx context.Context, id string, confirmed bool) error {
	err := p.remove(ctx, id, confirmed,
		func(ctx context.Context) error { return p.repo.Delete(ctx, id) },
		outcome{action: "delete", ok: "Event removed successfully.", fail: "Error deleting event"},
	)
	if err != nil {
		return err
	}
	p.formMu.Lock()
	if p.editingID == id {
		p.form = EventForm{}
		p.editingID = ""
	}
	p.formMu.Unlock()
	return nil
}

// uploadFailure prefers the backend's own message, which usually names the
// size or type limit that was hit.
func uploadFailure(err error) string {
	if apiErr, ok := repository.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Server rejected the file (check size)"
}
