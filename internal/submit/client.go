// Package submit performs the network half of a form submission: it encodes
// the collected values as an application/x-www-form-urlencoded POST body,
// sends it to the configured endpoint, and maps the response onto the
// success/failure contract the form controller expects. Only a 200 counts
// as success; any other status code or transport failure is an error the
// user can retry.
package submit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/postcard/internal/form"
)

// FormNameKey is the discriminator key identifying which logical form a
// generic endpoint is receiving.
const FormNameKey = "form-name"

// subjectKey carries the optional configured subject line.
const subjectKey = "subject"

// StatusError reports a completed exchange the endpoint rejected. Its
// message is the raw status line, e.g. "404 Not Found".
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Status) != "" {
		return e.Status
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

// Receipt describes one submission attempt, successful or not.
type Receipt struct {
	AttemptID  uuid.UUID
	StatusCode int
}

// Client sends form submissions to a single pre-configured endpoint.
type Client struct {
	settings Settings
	httpc    *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used by tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient builds a submission client for the given settings.
func NewClient(settings Settings, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		httpc:    &http.Client{Timeout: settings.Timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Settings returns the client's effective settings.
func (c *Client) Settings() Settings { return c.settings }

// Encode builds the flat url-encoded payload: every form field plus the
// form-name discriminator, and the subject line when one is configured.
func (c *Client) Encode(values form.Values) string {
	body := url.Values{}
	body.Set(FormNameKey, c.settings.FormName)
	if c.settings.Subject != "" {
		body.Set(subjectKey, c.settings.Subject)
	}
	for field, value := range values {
		body.Set(string(field), value)
	}
	return body.Encode()
}

// Send posts the values to the endpoint. The returned Receipt identifies
// the attempt even when the exchange fails; err is nil only for a 200.
func (c *Client) Send(ctx context.Context, values form.Values) (Receipt, error) {
	receipt := Receipt{AttemptID: uuid.New()}
	if err := c.settings.Validate(); err != nil {
		return receipt, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.Endpoint, strings.NewReader(c.Encode(values)))
	if err != nil {
		return receipt, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return receipt, err
	}
	defer resp.Body.Close()
	receipt.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		return receipt, &StatusError{Code: resp.StatusCode, Status: strings.TrimSpace(resp.Status)}
	}
	return receipt, nil
}
