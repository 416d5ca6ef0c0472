// Package emailjs sends transactional email through the EmailJS REST API.
// Raw HTTP calls, no SDK.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the EmailJS send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// ErrNotConfigured is returned when service, template or public key is missing.
var ErrNotConfigured = errors.New("emailjs: not configured")

// Sender sends a templated email. TemplateParams map to the template's
// {{variables}}.
type Sender interface {
	Send(ctx context.Context, templateParams map[string]string) error
}

// Config identifies the EmailJS account, service and template.
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string // EmailJS "user_id"
	PrivateKey string // optional "accessToken" for strict mode accounts
	Endpoint   string
}

// Configured reports whether the mandatory identifiers are present.
func (c Config) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// Client is the raw HTTP implementation of Sender.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client with a 10s timeout.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Sender = (*Client)(nil)

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts one email. EmailJS answers 200 with a plain "OK" body; any
// other status carries a plain-text reason.
func (c *Client) Send(ctx context.Context, templateParams map[string]string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: templateParams,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs send: %d %s", resp.StatusCode, strings.TrimSpace(string(reason)))
	}
	return nil
}
