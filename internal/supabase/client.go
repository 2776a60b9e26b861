// Package supabase adapts the two Supabase services the backend depends on,
// PostgREST table access (postgrest-go) and the GoTrue admin API (auth-go),
// to context-aware calls with per-call deadlines.
//
// A single Client is created at startup and shared by every request; it is
// safe for concurrent use. All calls go through one http.RoundTripper and so
// share one connection pool.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds table calls.
	DefaultTimeout = 10 * time.Second
	// DefaultAdminTimeout bounds identity creation.
	DefaultAdminTimeout = 15 * time.Second

	restPath = "/rest/v1"
	authPath = "/auth/v1"
)

// Client talks to one Supabase project.
type Client struct {
	baseURL      string
	apiKey       string
	transport    http.RoundTripper
	timeout      time.Duration
	adminTimeout time.Duration
	log          *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the round tripper shared by all calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithTimeout sets the deadline applied to table calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAdminTimeout sets the deadline applied to admin (identity) calls.
func WithAdminTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.adminTimeout = d
		}
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client for the project at baseURL authenticated with apiKey.
// apiKey must be a service_role key for admin calls to succeed.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		transport:    http.DefaultTransport,
		timeout:      DefaultTimeout,
		adminTimeout: DefaultAdminTimeout,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// contextTransport sends every request of one call with the call's context,
// since neither library accepts a context itself.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
	log  *zap.Logger
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if err != nil {
		return nil, err
	}
	t.log.Debug("supabase call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (c *Client) bind(ctx context.Context) contextTransport {
	return contextTransport{ctx: ctx, base: c.transport, log: c.log}
}

// upstream marks err as a Supabase failure. The context error, if any, stays
// matchable.
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrUpstream, op, err)
}
