// Package apiclient is the HTTP transport used by the resource services. It
// attaches bearer tokens and centralises 401 and 5xx handling.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
)

// DefaultTimeout bounds every request. Timeouts are not retried.
const DefaultTimeout = 10 * time.Second

// Client talks JSON to the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	policy  Policy
}

type Option func(*Client)

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenStore lets several clients share one session.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// New creates a client for baseURL with an in-memory token store and a
// policy that only logs notifications.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  NewMemoryTokenStore(),
		policy: Policy{
			Notify: func(level, message string) {
				logger.Warnf("apiclient %s: %s", level, message)
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the session store, e.g. to save a token after login.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Request sends body as JSON and returns the raw response body.
// Non-2xx responses come back as *HTTPError, transport failures as
// *NetworkError.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, params url.Values) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, params, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path)
}

// Upload posts a single file as multipart/form-data under field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, path)
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, nil, params)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	if !IsPublicAuthPath(path) {
		if token := c.tokens.Load().Token; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request, path string) (json.RawMessage, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debugf("apiclient %s %s failed: %v", req.Method, path, err)
		return nil, &NetworkError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: path, Err: err}
	}
	logger.Debugf("apiclient %s %s -> %d (%s)", req.Method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode, Body: json.RawMessage(body)}
		c.intercept(httpErr, path)
		return nil, httpErr
	}
	if len(body) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// intercept runs the global side effects for failed responses. It never
// changes the error returned to the caller.
func (c *Client) intercept(err *HTTPError, path string) {
	switch {
	case err.Status == http.StatusUnauthorized:
		c.tokens.Clear()

		location := path
		if c.policy.CurrentLocation != nil {
			location = c.policy.CurrentLocation()
		} else if IsPublicAuthPath(path) {
			// a rejected login attempt, not an expired session
			return
		}
		if isLoginPage(location) {
			return
		}
		if c.policy.OnSessionExpired != nil {
			c.policy.OnSessionExpired(LoginRoute(location))
		}
		c.policy.notify(LevelError, msgSessionExpired)

	case err.Status >= http.StatusInternalServerError:
		c.policy.notify(LevelError, msgServerError)
	}
}
