package service

import (
	"context"
	"strings"
	"sync"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// ServiceForm is the add/edit form on the services tab. Values are kept as
// typed so a failed submit can be shown again unchanged.
type ServiceForm struct {
	Name            string
	Description     string
	Rating          string
	Reviews         string
	Duration        string
	GuestCapacity   string
	PriceOriginal   string
	PriceDiscounted string
}

func (f ServiceForm) record() model.Service {
	return model.Service{
		Name:            strings.TrimSpace(f.Name),
		Description:     strings.TrimSpace(f.Description),
		Rating:          model.Flex(strings.TrimSpace(f.Rating)),
		Reviews:         model.Flex(strings.TrimSpace(f.Reviews)),
		Duration:        strings.TrimSpace(f.Duration),
		GuestCapacity:   strings.TrimSpace(f.GuestCapacity),
		PriceOriginal:   model.Flex(strings.TrimSpace(f.PriceOriginal)),
		PriceDiscounted: model.Flex(strings.TrimSpace(f.PriceDiscounted)),
	}
}

func serviceFormFrom(s model.Service) ServiceForm {
	return ServiceForm{
		Name:            s.Name,
		Description:     s.Description,
		Rating:          s.Rating.String(),
		Reviews:         s.Reviews.String(),
		Duration:        s.Duration,
		GuestCapacity:   s.GuestCapacity,
		PriceOriginal:   s.PriceOriginal.String(),
		PriceDiscounted: s.PriceDiscounted.String(),
	}
}

// ServicesPanel manages the decoration packages. Selecting an item puts the
// form in edit mode; submitting then updates instead of creating.
type ServicesPanel struct {
	*Panel[model.Service]
	repo repository.ServiceRepository

	formMu    sync.Mutex
	form      ServiceForm
	editingID string
}

func NewServicesPanel(repo repository.ServiceRepository, n *Notifier) *ServicesPanel {
	return &ServicesPanel{Panel: newPanel[model.Service]("services", n, nil), repo: repo}
}

func (p *ServicesPanel) Mount(ctx context.Context) error {
	p.reset()
	p.Cancel()
	return p.Load(ctx)
}

func (p *ServicesPanel) Load(ctx context.Context) error {
	return p.load(ctx, p.repo.List, "Failed to load services")
}

// Form returns the form contents and the id being edited ("" when adding).
func (p *ServicesPanel) Form() (ServiceForm, string) {
	p.formMu.Lock()
	defer p.formMu.Unlock()
	return p.form, p.editingID
}

// Edit loads a listed service into the form.
func (p *ServicesPanel) Edit(id string) error {
	s, ok := p.Find(id)
	if !ok {
		p.notifier.Error("Service not found")
		return repository.ErrNotFound
	}
	p.formMu.Lock()
	p.form = serviceFormFrom(s)
	p.editingID = id
	p.formMu.Unlock()
	return nil
}

// Cancel leaves edit mode and clears the form.
func (p *ServicesPanel) Cancel() {
	p.formMu.Lock()
	p.form = ServiceForm{}
	p.editingID = ""
	p.formMu.Unlock()
}

// Submit creates a service, or updates the one in edit mode. The form is
// cleared only on success.
func (p *ServicesPanel) Submit(ctx context.Context, f ServiceForm) (model.Service, error) {
	p.formMu.Lock()
	p.form = f
	editingID := p.editingID
	p.formMu.Unlock()

	if strings.TrimSpace(f.Name) == "" {
		err := invalid("name", "Service name is required")
		p.notifier.Error("Service name is required")
		return model.Service{}, err
	}

	rec := f.record()
	var (
		saved model.Service
		err   error
	)
	if editingID != "" {
		saved, err = p.replace(ctx, editingID,
			func(ctx context.Context) (model.Service, error) { return p.repo.Update(ctx, editingID, rec) },
			outcome{action: "update", ok: "Service updated successfully!", fail: "Failed to update service"},
		)
	} else {
		saved, err = p.create(ctx,
			func(ctx context.Context) (model.Service, error) { return p.repo.Create(ctx, rec) },
			outcome{action: "create", ok: "Service added successfully!", fail: "Failed to add service"},
		)
	}
	if err != nil {
		return model.Service{}, err
	}
	p.Cancel()
	return saved, nil
}

// Delete removes a service. Deleting the service being edited also resets
// the form.
func (p *ServicesPanel) Delete(ctx context.Context, id string, confirmed bool) error {
	err := p.remove(ctx, id, confirmed,
		func(ctx context.Context) error { return p.repo.Delete(ctx, id) },
		outcome{action: "delete", ok: "Service deleted successfully", fail: "Failed to delete service"},
	)
	if err != nil {
		return err
	}
	p.formMu.Lock()
	if p.editingID == id {
		p.form = ServiceForm{}
		p.editingID = ""
	}
	p.formMu.Unlock()
	return nil
}
