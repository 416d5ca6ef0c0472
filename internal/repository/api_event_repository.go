package repository

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gpdecorators/site/internal/model"
)

const (
	eventsPath = "/events"

	// eventListTimeout matches the gallery page's patience for a cold backend.
	eventListTimeout = 10 * time.Second
)

// EventRepository is the backend's gallery collection. Create and update
// are multipart uploads; single-record responses may be wrapped as
// {"event": {...}}.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	Create(ctx context.Context, in model.EventInput) (model.Event, error)
	Update(ctx context.Context, id string, in model.EventInput) (model.Event, error)
	Delete(ctx context.Context, id string) error
}

// APIEventRepository implements EventRepository over the REST backend.
type APIEventRepository struct {
	client *Client
}

func NewAPIEventRepository(client *Client) *APIEventRepository {
	return &APIEventRepository{client: client}
}

var _ EventRepository = (*APIEventRepository)(nil)

func (r *APIEventRepository) List(ctx context.Context) ([]model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, eventListTimeout)
	defer cancel()

	body, err := r.client.getJSON(ctx, "events", eventsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Event](body, "events", "data")
}

func (r *APIEventRepository) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	return r.upload(ctx, http.MethodPost, eventsPath, in)
}

func (r *APIEventRepository) Update(ctx context.Context, id string, in model.EventInput) (model.Event, error) {
	ev, err := r.upload(ctx, http.MethodPut, itemPath(eventsPath, id), in)
	if err != nil {
		return model.Event{}, err
	}
	if ev.ID == "" {
		ev.ID = id
	}
	return ev, nil
}

func (r *APIEventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.sendJSON(ctx, "events", http.MethodDelete, itemPath(eventsPath, id), nil)
	return err
}

func (r *APIEventRepository) upload(ctx context.Context, method, path string, in model.EventInput) (model.Event, error) {
	body, contentType, err := encodeEventForm(in)
	if err != nil {
		return model.Event{}, err
	}
	resp, err := r.client.do(ctx, "events", method, path, body, contentType)
	if err != nil {
		return model.Event{}, err
	}
	ev, err := decodeOne[model.Event](resp, "event", "data")
	if err != nil {
		return model.Event{}, fmt.Errorf("%s event: %w", strings.ToLower(method), err)
	}
	return ev, nil
}

// encodeEventForm builds the multipart body with name, description and an
// optional image part.
func encodeEventForm(in model.EventInput) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", strings.TrimSpace(in.Name)); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("description", strings.TrimSpace(in.Description)); err != nil {
		return nil, "", err
	}

	if in.Image != nil {
		ct := in.Image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(in.Image.Filename)))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(in.Image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
