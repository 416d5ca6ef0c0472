package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gpdecorators/site/internal/model"
)

const servicesPath = "/services"

// ServiceRepository is the backend's decoration package collection.
// Single-record responses come wrapped as {"data": {...}}.
type ServiceRepository interface {
	List(ctx context.Context) ([]model.Service, error)
	Create(ctx context.Context, s model.Service) (model.Service, error)
	Update(ctx context.Context, id string, s model.Service) (model.Service, error)
	Delete(ctx context.Context, id string) error
}

// APIServiceRepository implements ServiceRepository over the REST backend.
type APIServiceRepository struct {
	client *Client
}

func NewAPIServiceRepository(client *Client) *APIServiceRepository {
	return &APIServiceRepository{client: client}
}

var _ ServiceRepository = (*APIServiceRepository)(nil)

func (r *APIServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	body, err := r.client.getJSON(ctx, "services", servicesPath)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Service](body, "data", "services")
}

func (r *APIServiceRepository) Create(ctx context.Context, s model.Service) (model.Service, error) {
	s.ID = ""
	body, err := r.client.sendJSON(ctx, "services", http.MethodPost, servicesPath, s)
	if err != nil {
		return model.Service{}, err
	}
	created, err := decodeOne[model.Service](body, "data")
	if err != nil {
		return model.Service{}, fmt.Errorf("create service: %w", err)
	}
	return created, nil
}

func (r *APIServiceRepository) Update(ctx context.Context, id string, s model.Service) (model.Service, error) {
	s.ID = ""
	body, err := r.client.sendJSON(ctx, "services", http.MethodPut, itemPath(servicesPath, id), s)
	if err != nil {
		return model.Service{}, err
	}
	updated, err := decodeOne[model.Service](body, "data")
	if err != nil {
		return model.Service{}, fmt.Errorf("update service: %w", err)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return updated, nil
}

func (r *APIServiceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "services", http.MethodDelete, itemPath(servicesPath, id), nil)
	return err
}
