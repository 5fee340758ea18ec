package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "margin/0.1"

	// DefaultTimeout applies when neither the client nor the request sets one.
	DefaultTimeout = 10 * time.Second

	headerRequestID = "X-Request-ID"
)

// Client talks to the reading tracker HTTP API. It carries only immutable
// configuration and is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
	requestID func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client. Its own Timeout should be
// zero; the tracker client enforces deadlines per request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger routes request logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8000"). A bare host:port gets an http scheme.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// RequestConfig describes one call to Execute.
type RequestConfig struct {
	Method string
	// Headers are merged over the defaults; on a key collision the value
	// here wins.
	Headers map[string]string
	// Body is sent as-is. Nil sends no body.
	Body []byte
	// Timeout overrides the client default when positive.
	Timeout time.Duration
}

// Execute performs one request against path (appended to the base URL) and
// returns the raw JSON body. A 204 response, or any 2xx with an empty body,
// yields a nil result and a nil error. Every failure is a *Error; nothing is
// retried.
func (c *Client) Execute(ctx context.Context, path string, cfg RequestConfig) (json.RawMessage, error) {
	res, err := c.execute(ctx, path, cfg)
	return res.body, err
}

// response is a successful result together with the status it arrived
// with, so decoding failures can report the real status.
type response struct {
	body   json.RawMessage
	status int
}

func (c *Client) execute(ctx context.Context, path string, cfg RequestConfig) (response, error) {
	if c == nil {
		return response{}, fmt.Errorf("client is nil")
	}
	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !supportedMethod(method) {
		return response{}, fmt.Errorf("unsupported method %q", cfg.Method)
	}

	timeout := c.timeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if cfg.Body != nil {
		body = bytes.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}

	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	log := c.logger.With(
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", req.Header.Get(headerRequestID)),
	)
	start := time.Now()
	log.Debug("request started")

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		log.Warn("request failed", slog.String("kind", apiErr.Kind.String()), slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return response{}, apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := transportError(ctx, err)
		log.Warn("read response failed", slog.Int("status", resp.StatusCode), slog.Any("error", err))
		return response{}, apiErr
	}

	log = log.With(slog.Int("status", resp.StatusCode), slog.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(resp.StatusCode, parseErrorBody(data))
		log.Warn("request rejected", slog.String("kind", apiErr.Kind.String()), slog.String("message", apiErr.Message))
		return response{}, apiErr
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		log.Debug("request finished", slog.Bool("empty", true))
		return response{status: resp.StatusCode}, nil
	}
	if !json.Valid(data) {
		log.Warn("response is not JSON")
		return response{}, invalidResponseError(resp.StatusCode, fmt.Errorf("decode response: invalid JSON"))
	}
	log.Debug("request finished", slog.Int("bytes", len(data)))
	return response{body: json.RawMessage(data), status: resp.StatusCode}, nil
}

// transportError classifies a failure that happened before a complete
// response was read. parent is the caller's context, which distinguishes a
// caller cancellation from the request deadline.
func transportError(parent context.Context, err error) *Error {
	if errors.Is(parent.Err(), context.Canceled) {
		return cancelledError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutError(err)
	}
	return networkError(err)
}

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
