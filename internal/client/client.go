package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/logger"
	"github.com/wolfeidau/mihotel/internal/session"
	"github.com/wolfeidau/mihotel/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the API origin used when MIHOTEL_API_URL is unset.
	DefaultBaseURL = "http://localhost:5000/api"

	// BaseURLEnv selects the API origin.
	BaseURLEnv = "MIHOTEL_API_URL"

	maxResponseBytes = 10 << 20 // 10MiB
)

// Navigator performs client side navigation, such as sending the user to the
// login entry point.
type Navigator interface {
	Redirect(path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string) error

func (f NavigatorFunc) Redirect(path string) error { return f(path) }

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration

	// EnableCache turns on HTTP caching of GET responses, honouring the
	// API's Cache-Control headers. CacheDir selects disk over memory.
	EnableCache bool
	CacheDir    string

	Logger *zerolog.Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	baseURL := os.Getenv(BaseURLEnv)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// Client calls the hotel management API on behalf of the stored session.
//
// Every authenticated call that receives 401 clears the session and
// redirects to the login route. The redirect fires once until a new session
// is established through Login or Register.
type Client struct {
	baseURL  *url.URL
	public   *http.Client
	authed   *http.Client
	sessions *session.Store
	nav      Navigator

	mu         sync.Mutex
	redirected bool
}

// New creates a client bound to the session store. nav may be nil.
func New(cfg Config, sessions *session.Store, nav Navigator) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	lg := log.Logger
	if cfg.Logger != nil {
		lg = *cfg.Logger
	}

	var network http.RoundTripper = http.DefaultTransport.(*http.Transport).Clone()

	authedBase := network
	if cfg.EnableCache {
		authedBase = newTenantCachingTransport(network, cfg.CacheDir, func() string {
			if t := sessions.Tenant(); t != nil {
				return t.ID
			}
			return ""
		})
	}

	bearer := &oauth2.Transport{
		Source: &sessionTokenSource{sessions: sessions},
		Base:   authedBase,
	}

	c := &Client{
		baseURL: baseURL,
		public: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(logger.NewRequestLogger(lg, network)),
		},
		authed: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(logger.NewRequestLogger(lg, bearer)),
		},
		sessions: sessions,
		nav:      nav,
	}

	return c, nil
}

// Sessions returns the session store the client authenticates with.
func (c *Client) Sessions() *session.Store {
	return c.sessions
}

// sessionTokenSource feeds the stored session token to oauth2.Transport.
type sessionTokenSource struct {
	sessions *session.Store
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	token := s.sessions.Token()
	if token == "" {
		return nil, ErrLoginRequired
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// envelope is the response shape shared by every API endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

// request describes a single API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// public calls skip the bearer token and the 401 contract.
	public bool

	// quiet calls send the bearer token but do not expire the session on 401.
	quiet bool
}

// call performs req and decodes the envelope data into out when non-nil.
func (c *Client) call(ctx context.Context, req request, out any) error {
	env, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request) (*envelope, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpClient := c.authed
	if req.public {
		httpClient = c.public
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		switch {
		case errors.Is(err, ErrLoginRequired):
			return nil, ErrLoginRequired
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !req.public && !req.quiet {
		c.expire()
		return nil, ErrUnauthorized
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var env envelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return nil, &APIError{Status: resp.StatusCode}
			}
			return nil, fmt.Errorf("failed to decode %s %s response: %w", req.method, req.path, err)
		}
	} else if resp.StatusCode < http.StatusBadRequest {
		env.Success = true
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return nil, &APIError{
			Status:      resp.StatusCode,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}
	}

	return &env, nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

// expire clears the session after the API rejected its token and redirects
// to the login route the first time it happens for this session.
func (c *Client) expire() {
	c.mu.Lock()
	first := !c.redirected
	c.redirected = true
	c.mu.Unlock()

	if err := c.sessions.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear expired session")
	}
	telemetry.GetMetrics().SessionExpiredTotal.Add(context.Background(), 1)

	if !first || c.nav == nil {
		return
	}

	log.Info().Msg("session expired, redirecting to login")

	if err := c.nav.Redirect(auth.RouteLogin); err != nil {
		log.Debug().Err(err).Msg("login redirect")
	}
}

// RedirectToLogin sends the user to the login route.
func (c *Client) RedirectToLogin() error {
	if c.nav == nil {
		return ErrLoginRequired
	}
	return c.nav.Redirect(auth.RouteLogin)
}

func (c *Client) resetRedirect() {
	c.mu.Lock()
	c.redirected = false
	c.mu.Unlock()
}
