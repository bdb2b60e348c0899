// ABOUTME: HTTP client core for the fold platform admin API
// ABOUTME: JSON request/response plumbing and APIError mapping over the gateway

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/fold-console/internal/authgw"
)

// Client is a typed API client for the platform admin API. Every request
// is executed through the gateway, which handles credential attachment
// and the 401 challenge flow.
type Client struct {
	gw      authgw.Doer
	baseURL string
	logger  *slog.Logger
}

// New creates a client over the given gateway. baseURL is the platform
// origin, e.g. https://admin.example.
func New(gw authgw.Doer, baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		gw:      gw,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("component", "client"),
	}
}

// APIError is a non-2xx response from the platform API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// apiErrorBody is the error envelope the platform uses for failures.
type apiErrorBody struct {
	Error string `json:"error"`
}

// do executes a request with an optional JSON body and decodes a JSON
// response into out (which may be nil for endpoints with empty bodies).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.gw.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// asAPIError reads the error envelope from a non-2xx response.
func (c *Client) asAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var envelope apiErrorBody
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
