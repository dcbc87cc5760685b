// Package apiclient performs JSON requests against the Buildboard platform API.
//
// Module gateways depend on the narrow Doer seam rather than this concrete
// client, so tests can substitute fakes without HTTP.
package apiclient

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

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

const defaultTimeout = 10 * time.Second

// Request describes one platform API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// UserID identifies the acting viewer; it is forwarded as the
	// authenticated-subject header the platform API expects.
	UserID string
	// Idempotent marks mutations that should carry a client-generated
	// idempotency key so retries cannot double-apply.
	Idempotent bool
}

// Doer is the narrow request seam gateways depend on.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Client is the production platform API client.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// New builds a platform API client for the given base URL. Outbound calls are
// traced through the OpenTelemetry HTTP transport.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("platform API base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse platform API base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("platform API base URL %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: parsed,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Do executes one API call and decodes a JSON response into out when out is
// non-nil. Upstream error statuses come back as typed application errors.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil || c.base == nil || c.httpClient == nil {
		return apperrors.E(apperrors.KindUnavailable, "platform API client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return fmt.Errorf("request path is required")
	}

	target := *c.base
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if userID := strings.TrimSpace(req.UserID); userID != "" {
		httpReq.Header.Set("X-Buildboard-User", userID)
	}
	if req.Idempotent {
		httpReq.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.EK(apperrors.KindUnavailable, "error.web.message.unavailable", "platform API is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.FromUpstreamStatus(resp.StatusCode, "", upstreamErrorMessage(resp.Body, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func upstreamErrorMessage(body io.Reader, statusCode int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err == nil {
		if message := strings.TrimSpace(payload.Error); message != "" {
			return message
		}
	}
	return http.StatusText(statusCode)
}
