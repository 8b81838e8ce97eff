package backend

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

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/infra/buildinfo"
)

// Backend endpoints.
const (
	PathCount        = "/count"
	PathHalls        = "/halls"
	PathAddCamera    = "/add_camera"
	PathRemoveCamera = "/remove_camera"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// maxBody caps the size of response bodies read from the backend.
const maxBody = 8 << 20

// Client talks to the analytics backend over HTTP.
type Client struct {
	baseURL     string
	client      *http.Client
	multiHall   bool
	defaultHall string
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMultiHall selects GET /halls instead of GET /count for full fetches.
func WithMultiHall(enabled bool) Option {
	return func(c *Client) {
		c.multiHall = enabled
	}
}

// WithDefaultHall sets the hall single-hall payloads are attributed to.
func WithDefaultHall(id string) Option {
	return func(c *Client) {
		c.defaultHall = id
	}
}

// NewClient creates a backend client. A base URL without scheme gets http://.
func NewClient(baseURL string, opts ...Option) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		defaultHall: "default",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DefaultHall returns the hall single-hall payloads are attributed to.
func (c *Client) DefaultHall() string {
	return c.defaultHall
}

// FetchAll fetches the full counter state from the configured endpoint.
func (c *Client) FetchAll(ctx context.Context) (domain.Snapshot, error) {
	path := PathCount
	if c.multiHall {
		path = PathHalls
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, domain.ErrRemoteUnavailable.WithDetails("read " + path).WithCause(err)
	}
	if resp.StatusCode >= 300 {
		return nil, remoteError(path, resp.StatusCode, body)
	}

	snap, err := DecodeCounts(body, c.defaultHall)
	if err != nil {
		return nil, domain.ErrRemoteRejected.WithDetails("malformed " + path + " response").WithCause(err)
	}
	return snap, nil
}

// AddCamera registers a camera with the backend.
func (c *Client) AddCamera(ctx context.Context, reg domain.CameraRegistration) error {
	return c.post(ctx, PathAddCamera, reg)
}

// RemoveCamera unregisters a camera. An empty hall id is omitted.
func (c *Client) RemoveCamera(ctx context.Context, hallID, cameraID string) error {
	body := struct {
		CameraID string `json:"camera_id"`
		HallID   string `json:"hall_id,omitempty"`
	}{CameraID: cameraID, HallID: hallID}
	return c.post(ctx, PathRemoveCamera, body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(path, resp.StatusCode, respBody)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent("hallwatch"))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, domain.ErrRemoteUnavailable.WithDetails(method + " " + path).WithCause(err)
	}
	return resp, nil
}

// remoteError maps a non-2xx response to a domain error, preserving the
// backend's {"error": "..."} message when present.
func remoteError(path string, status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return domain.ErrRemoteRejected.WithDetails(fmt.Sprintf("%s: %d %s", path, status, msg))
}
