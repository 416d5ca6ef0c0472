package repository

import (
	"context"
	"net/http"

	"github.com/gpdecorators/site/internal/model"
)

const contactsPath = "/contacts"

// ContactRepository is the backend's contact inquiry collection.
type ContactRepository interface {
	List(ctx context.Context) ([]model.Contact, error)
	Create(ctx context.Context, c *model.Contact) error
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// APIContactRepository implements ContactRepository over the REST backend.
type APIContactRepository struct {
	client *Client
}

func NewAPIContactRepository(client *Client) *APIContactRepository {
	return &APIContactRepository{client: client}
}

var _ ContactRepository = (*APIContactRepository)(nil)

func (r *APIContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	body, err := r.client.getJSON(ctx, "contacts", contactsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Contact](body, "contacts")
}

func (r *APIContactRepository) Create(ctx context.Context, c *model.Contact) error {
	_, err := r.client.sendJSON(ctx, "contacts", http.MethodPost, contactsPath, c)
	return err
}

// MarkRead handles PUT /contacts/{id} with {"read": true}.
func (r *APIContactRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "contacts", http.MethodPut, itemPath(contactsPath, id), map[string]bool{"read": true})
	return err
}

func (r *APIContactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "contacts", http.MethodDelete, itemPath(contactsPath, id), nil)
	return err
}
