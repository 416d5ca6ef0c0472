package service

import (
	"context"
	"fmt"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
)

// ContactsPanel is the inquiry inbox. Contact ids are Mongo ObjectIDs and
// anything else is refused before reaching the backend.
type ContactsPanel struct {
	*Panel[model.Contact]
	repo repository.ContactRepository
}

func NewContactsPanel(repo repository.ContactRepository, n *Notifier) *ContactsPanel {
	return &ContactsPanel{
		Panel: newPanel[model.Contact]("contacts", n, objectIDCheck("Invalid contact ID")),
		repo:  repo,
	}
}

func (p *ContactsPanel) Mount(ctx context.Context) error {
	p.reset()
	return p.Load(ctx)
}

func (p *ContactsPanel) Load(ctx context.Context) error {
	return p.load(ctx, p.repo.List, "Failed to load inquiries")
}

// Refresh reloads the inbox and reports how many inquiries came back.
func (p *ContactsPanel) Refresh(ctx context.Context) error {
	if err := p.load(ctx, p.repo.List, "Failed to refresh"); err != nil {
		return err
	}
	p.notifier.Success(fmt.Sprintf("Refreshed - %d inquiries loaded", p.Len()))
	return nil
}

// Unread counts inquiries not yet marked as read.
func (p *ContactsPanel) Unread() int {
	return model.UnreadCount(p.Items())
}

func (p *ContactsPanel) MarkRead(ctx context.Context, id string) error {
	return p.patch(ctx, id,
		func(ctx context.Context) error { return p.repo.MarkRead(ctx, id) },
		func(c model.Contact) model.Contact {
			c.Read = true
			return c
		},
		outcome{action: "mark_read", ok: "Message marked as read", fail: "Error updating status"},
	)
}

func (p *ContactsPanel) Delete(ctx context.Context, id string, confirmed bool) error {
	return p.remove(ctx, id, confirmed,
		func(ctx context.Context) error { return p.repo.Delete(ctx, id) },
		outcome{action: "delete", ok: "Inquiry deleted", fail: "Error deleting inquiry"},
	)
}
