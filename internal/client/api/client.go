// Package api implements the HTTP client for the remote LMS API: bearer
// authentication, bounded timeouts and a typed error taxonomy consumed by
// the sync layer's fallback logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the current session token. An empty string means no
// session is present and requests go out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client performs JSON requests against the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// New constructs a Client. timeout bounds every request end to end so that
// callers reach their cache fallback promptly.
func New(baseURL string, tokens TokenSource, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// NewWithHTTPClient constructs a Client around an existing *http.Client.
// Used by tests to inject a fake transport.
func NewWithHTTPClient(baseURL string, tokens TokenSource, hc *http.Client, log *zap.Logger) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, tokens: tokens, log: log}
}

// Get performs a GET request and decodes the response into out (unless nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "unencodable request body", cause: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "invalid request", cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindUnavailable, Message: "server unreachable", cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindUnavailable, Message: "response interrupted", cause: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: serverMessage(raw, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Kind: KindMalformed, Message: "unexpected response shape", cause: err}
		}
	}
	return nil
}

// serverMessage extracts the human-readable message field from an error
// body, falling back to the HTTP status text.
func serverMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(status)
}
