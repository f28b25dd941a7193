package client

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

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/session"
	"github.com/wolfeidau/surplus/internal/telemetry"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// RequestIDHeader carries a per request identifier for correlating logs.
const RequestIDHeader = "X-Request-Id"

const maxErrorBody = 64 << 10

// Config holds common client configuration
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheDir string
	Debug    bool
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Auth supplies the bearer token for authenticated calls and is told when
// the API rejects it. *session.Manager satisfies it.
type Auth interface {
	Token() string
	HandleUnauthorized()
}

var _ Auth = (*session.Manager)(nil)

// Client calls the marketplace REST API.
type Client struct {
	baseURL string
	auth    Auth

	// httpClient serves authenticated calls and mutations.
	httpClient *http.Client
	// publicClient serves anonymous GETs through the HTTP cache.
	publicClient *http.Client
	cache        httpcache.Cache
}

// New creates a client. auth may be nil, in which case authenticated calls
// fail with ErrNotSignedIn.
func New(config Config, auth Auth) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	caching := newCachingTransport(config.CacheDir)

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		auth:    auth,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: newLoggingTransport(http.DefaultTransport),
		},
		publicClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: newLoggingTransport(caching),
		},
		cache: caching.Cache,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	method string
	path   string
	body   any
	out    any
	authed bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var token string
	if cl.authed {
		if c.auth != nil {
			token = c.auth.Token()
		}
		if token == "" {
			return ErrNotSignedIn
		}
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.httpClient
	if cl.method == http.MethodGet && !cl.authed {
		hc = c.publicClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp, requestID)

		if resp.StatusCode == http.StatusUnauthorized && cl.authed {
			telemetry.GetMetrics().APIUnauthorizedTotal.Add(ctx, 1)
			log.Warn().
				Str("path", cl.path).
				Str("request_id", requestID).
				Msg("token rejected, ending session")

			if c.auth != nil {
				c.auth.HandleUnauthorized()
			}
			return fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)
		}

		return apiErr
	}

	if cl.method != http.MethodGet {
		evictResource(c.cache, req.URL)
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(cl.out)
	// the cache only stores a response once its body has been read to EOF
	_, _ = io.Copy(io.Discard, resp.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s response: %w", cl.path, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any, authed bool) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, out: out, authed: authed})
}

func (c *Client) post(ctx context.Context, path string, body, out any, authed bool) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, out: out, authed: authed})
}

func (c *Client) put(ctx context.Context, path string, body, out any, authed bool) error {
	return c.do(ctx, call{method: http.MethodPut, path: path, body: body, out: out, authed: authed})
}

func (c *Client) delete(ctx context.Context, path string, out any, authed bool) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path, out: out, authed: authed})
}
