// Package api is the HTTP client for the FitMate backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/logging"
	"github.com/fitmate/admin-console/internal/models"
)

const defaultTimeout = 10 * time.Second

// Config holds client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8080".
	BaseURL string

	// Token is the bearer token for the admin session.
	Token string

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport (used in tests).
	HTTPClient *http.Client
}

// Client talks to the FitMate backend. All methods take a context and
// return classified errors (ErrSessionExpired, ErrTimeout, *Error).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a Client from the given configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base URL required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    httpClient,
		logger:  logging.Component("api-client"),
	}, nil
}

// SetToken replaces the session token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges admin credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// FetchInbox returns messages received by the admin.
func (c *Client) FetchInbox(ctx context.Context) ([]models.Message, error) {
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages/inbox", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// FetchOutbox returns messages sent by the admin.
func (c *Client) FetchOutbox(ctx context.Context) ([]models.Message, error) {
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages/outbox", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// FetchUsers returns all gym members.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// MarkMessageRead marks a single inbox message as read. The endpoint is
// idempotent on the backend; any 2xx counts as success.
func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/messages/%s/read", url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

// SendMessage sends a message to a member and returns the stored copy.
func (c *Client) SendMessage(ctx context.Context, recipientID, body string) (*models.Message, error) {
	var out struct {
		Message models.Message `json:"message"`
	}
	req := map[string]string{"recipient_id": recipientID, "body": body}
	if err := c.do(ctx, http.MethodPost, "/api/v1/messages", req, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}

// FetchDashboard returns the current aggregate dashboard snapshot.
func (c *Client) FetchDashboard(ctx context.Context) (*models.DashboardSnapshot, error) {
	var out struct {
		Dashboard models.DashboardSnapshot `json:"dashboard"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out.Dashboard, nil
}

// ListEquipment returns all tracked equipment.
func (c *Client) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var out struct {
		Equipment []models.Equipment `json:"equipment"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/equipment", nil, &out); err != nil {
		return nil, err
	}
	return out.Equipment, nil
}

// ListSchedule returns upcoming schedule entries.
func (c *Client) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	var out struct {
		Schedule []models.ScheduleEntry `json:"schedule"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/schedule", nil, &out); err != nil {
		return nil, err
	}
	return out.Schedule, nil
}

// FetchSettings returns the gym-wide settings.
func (c *Client) FetchSettings(ctx context.Context) (*models.Settings, error) {
	var out struct {
		Settings models.Settings `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

// UpdateSettings saves the gym-wide settings.
func (c *Client) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return c.do(ctx, http.MethodPut, "/api/v1/settings", settings, nil)
}

// do issues a single request and decodes the response into out (when out
// is non-nil). Non-2xx responses and transport failures come back as
// classified errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn().Str("op", op).Msg("session rejected by backend")
		return fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeErrorDetail(resp.Body)
		c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Str("detail", logging.Redact(detail)).Msg("request failed")
		return fmt.Errorf("%s: %w", op, &Error{Status: resp.StatusCode, Detail: detail})
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeErrorDetail pulls the {"error": "..."} detail out of a failure
// body, tolerating non-JSON responses.
func decodeErrorDetail(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}
