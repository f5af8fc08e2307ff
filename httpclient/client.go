// Package httpclient is the single outbound pipeline for EventPass API
// calls. Every domain client goes through it so bearer attachment and the
// 401 refresh-and-retry rule live in exactly one place.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// Authorizer supplies the bearer token for outgoing requests and exchanges
// an invalid one for a fresh token. The session controller implements it.
type Authorizer interface {
	// Token returns the current bearer token, or false when anonymous.
	Token() (string, bool)
	// RefreshToken exchanges the current token for a new one. On failure the
	// implementation is responsible for tearing the session down; the client
	// only propagates the original authorization failure.
	RefreshToken(ctx context.Context) (string, error)
}

// Client issues all requests against a fixed base URL with JSON defaults.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authorizer
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger replaces the package-level logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// BindAuthorizer attaches the session controller after construction. The
// controller needs the client for its own round trips, so the binding cannot
// happen inside New.
func (c *Client) BindAuthorizer(a Authorizer) {
	c.auth = a
}

// Request is one outbound API call. Body must be a fully buffered byte slice
// so the 401 retry can replay it.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string

	// NoAuth skips bearer attachment (login, register).
	NoAuth bool
	// NoRetry disables the 401 refresh-and-retry. The refresh round trip
	// itself sets this so a dead session cannot recurse.
	NoRetry bool
}

// pendingRequest carries the retried flag alongside the original request so
// a second authorization failure is terminal rather than another refresh.
type pendingRequest struct {
	req     *Request
	id      string
	retried bool
}

// Do sends the request and returns the raw response body. A 401 on a request
// that has not been retried triggers one refresh; on success the original
// request is replayed exactly once and its outcome returned transparently.
// Every other failure maps onto the error taxonomy in errors.go.
func (c *Client) Do(ctx context.Context, req *Request) ([]byte, error) {
	pending := &pendingRequest{req: req, id: uuid.New().String()}

	body, err := c.send(ctx, pending, "")
	if !IsUnauthorized(err) || req.NoRetry || c.auth == nil {
		return body, err
	}

	pending.retried = true
	newToken, refreshErr := c.auth.RefreshToken(ctx)
	if refreshErr != nil || newToken == "" {
		c.logger.Debug().Str("path", req.Path).Msg("token refresh failed, surfacing original 401")
		return nil, err
	}

	return c.send(ctx, pending, newToken)
}

// send performs a single attempt. tokenOverride carries the freshly
// refreshed token on the replay so the retried request does not race the
// session state it just updated.
func (c *Client) send(ctx context.Context, pending *pendingRequest, tokenOverride string) ([]byte, error) {
	req := pending.req

	httpReq, err := c.buildRequest(ctx, pending, tokenOverride)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("transport failure")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("request_id", pending.id).
		Int("status", resp.StatusCode).
		Bool("retried", pending.retried).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errorFromResponse(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) buildRequest(ctx context.Context, pending *pendingRequest, tokenOverride string) (*http.Request, error) {
	req := pending.req

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient.buildRequest: %w", err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", pending.id)
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	if !req.NoAuth {
		token := tokenOverride
		if token == "" && c.auth != nil {
			token, _ = c.auth.Token()
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}
