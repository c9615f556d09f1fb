// Package apiclient talks to the ScaleBit API gateway on behalf of one caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/navigation"
	"github.com/scalebit/admin-console/internal/observability"
	"github.com/scalebit/admin-console/internal/repository"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

const maxErrorBody = 64 << 10

// Client is the single configured gateway client. The zero session binding
// sends every request unauthenticated; WithSession attaches a token slot.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	now        func() time.Time

	store repository.TokenStore
	guard *auth.Guard
	nav   navigation.Navigator
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. No timeout is imposed by default.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithEvents publishes session lifecycle events to d.
func WithEvents(d events.Dispatcher) Option {
	return func(c *Client) { c.dispatcher = d }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New validates the base URL and returns an unbound client.
func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithSession returns a copy bound to one caller's token slot and navigator.
func (c *Client) WithSession(store repository.TokenStore, nav navigation.Navigator) *Client {
	bound := *c
	bound.store = store
	bound.guard = auth.NewGuard(store, c.dispatcher)
	bound.nav = nav
	return &bound
}

// Guard returns the session guard for the bound slot, or nil when unbound.
func (c *Client) Guard() *auth.Guard {
	return c.guard
}

// BaseURL returns the gateway root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends in as JSON (when non-nil) and decodes the response into out
// (when non-nil). decoded reports whether a response body was present.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (bool, error) {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return false, err
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.RecordUpstream(method, 0, duration)
		log.Warn("gateway request failed", zap.Duration("duration", duration), zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, apperrors.MapError(ctxErr)
		}
		return false, apperrors.NewUnavailable(err)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstream(method, resp.StatusCode, duration)
	log.Debug("gateway request completed", zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))

	return c.handleResponse(ctx, resp, out)
}

// newRequest builds the outbound request and attaches the bearer token only
// when the guard reports an authenticated session at this instant.
func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.guard != nil {
		token, session, err := c.guard.Resolve(ctx, c.now())
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if session.Authenticated {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) handleResponse(ctx context.Context, resp *http.Response, out any) (bool, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		body := readBody(resp.Body)
		c.rejectSession(ctx)
		msg := strings.TrimSpace(body)
		if msg == "" {
			msg = "unauthorized"
		}
		return false, apperrors.NewUnauthorized(msg)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, apperrors.NewUpstreamError(resp.StatusCode, readBody(resp.Body))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, &apperrors.DomainError{
			Code:       apperrors.CodeUpstream,
			Message:    "invalid response from api gateway",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	return true, nil
}

// rejectSession applies the 401 remediation: empty the slot, then send the
// caller to login unless it is already there.
func (c *Client) rejectSession(ctx context.Context) {
	current := ""
	if c.nav != nil {
		current = c.nav.Current()
	}

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn("failed to clear rejected token", zap.Error(err))
		}
	}
	events.Publish(ctx, c.dispatcher, events.Event{
		Type:      events.EventSessionRejected,
		Reason:    events.ReasonRejected,
		Path:      current,
		Timestamp: time.Now().UTC(),
	})

	if c.nav != nil && current != auth.LoginPath {
		c.nav.Navigate(auth.LoginPath)
	}
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(b)
}
