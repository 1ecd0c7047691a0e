// Package api is the HTTP adapter for the invoice backend. One Client
// carries the cookie jar, the correlation header, and the retry policy;
// the per-entity gateways in this package share it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
)

// HTTPError is a non-2xx response that is not an auth failure. These
// are considered transient and retried.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d for URL %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// APIError is a well-formed response whose envelope reports failure.
// The request reached the application, so retrying cannot help.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope is the success/failure wrapper most endpoints answer with.
// Responses without the wrapper leave Success untouched; ok() treats a
// missing field as success to keep plain payloads working.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) ok() bool {
	return e.Success == nil || *e.Success
}

func (e envelope) err() error {
	if e.ok() {
		return nil
	}
	message := e.Error
	if message == "" {
		message = e.Message
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{Message: message}
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessionID      func() string
	maxAttempts    uint
	retryDelay     time.Duration
	onUnauthorized func()
	logger         *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry overrides attempt count and the fixed delay between
// attempts. attempts counts every try including the first.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithSessionID installs the correlation id source. The function is
// consulted per request, so a rotated id takes effect immediately.
func WithSessionID(fn func() string) Option {
	return func(c *Client) { c.sessionID = fn }
}

// WithUnauthorizedHandler installs the hook run when the server answers
// 401 or 403. It fires at most once per logical request.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout, Jar: jar},
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c
}

// do runs one logical request with retries. Transport failures and
// non-2xx statuses other than 401/403 are retried after a fixed delay;
// auth failures run the unauthorized hook once and abort immediately.
// out, when non-nil, receives the decoded JSON body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	operation := func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, method, path, payload, "application/json", out)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)),
		backoff.WithMaxTries(c.maxAttempts),
		backoff.WithNotify(func(err error, delay time.Duration) {
			c.logger.Debug("request failed, retrying",
				zap.String("method", method),
				zap.String("path", path),
				zap.Duration("delay", delay),
				zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, contentType string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	c.setHeaders(req, payload != nil, contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, req.URL.String(), data); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response body: %w", err))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool, contentType string) {
	if hasBody && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionID != nil {
		if id := c.sessionID(); id != "" {
			req.Header.Set("Session-ID", id)
		}
	}
}

func (c *Client) checkStatus(status int, url string, data []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.logger.Warn("authentication required", zap.String("url", url), zap.Int("status", status))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return backoff.Permanent(fmt.Errorf("%s: %w", serverMessage(data, http.StatusText(status)), domain.ErrUnauthorized))
	case status < 200 || status >= 300:
		return &HTTPError{StatusCode: status, URL: url, Message: serverMessage(data, "")}
	default:
		return nil
	}
}

// serverMessage digs a human-readable reason out of an error body.
func serverMessage(data []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	if trimmed := strings.TrimSpace(string(data)); trimmed != "" && len(trimmed) <= 200 {
		return trimmed
	}
	return fallback
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

// getText fetches a non-JSON resource, for the server-rendered HTML
// fragments. Auth handling matches do; no retry beyond the shared
// policy.
func (c *Client) getText(ctx context.Context, path string) (string, error) {
	var text string
	attempt := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		if c.sessionID != nil {
			req.Header.Set("Session-ID", c.sessionID())
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("perform request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return struct{}{}, fmt.Errorf("read response body: %w", err)
		}
		if err := c.checkStatus(resp.StatusCode, req.URL.String(), data); err != nil {
			return struct{}{}, err
		}
		text = string(data)
		return struct{}{}, nil
	}
	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)),
		backoff.WithMaxTries(c.maxAttempts),
	)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	return text, nil
}

// download streams a binary resource into dst. Single attempt: a
// partially written destination must not be retried into.
func (c *Client) download(ctx context.Context, path string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.sessionID != nil {
		req.Header.Set("Session-ID", c.sessionID())
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s: %w", http.StatusText(resp.StatusCode), domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String(), Message: serverMessage(data, "")}
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("write download: %w", err)
	}
	return nil
}

// upload posts a single file as multipart form data. The file is
// buffered up front so a retried attempt resends identical bytes.
func (c *Client) upload(ctx context.Context, path, fieldName, filename string, contents io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return fmt.Errorf("read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	payload := buf.Bytes()
	operation := func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, http.MethodPost, path, payload, writer.FormDataContentType(), out)
	}
	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)),
		backoff.WithMaxTries(c.maxAttempts),
	)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return nil
}
