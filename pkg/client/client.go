// Package client is the Go client for the LexML HTTP API, used by the CLI
// and by external integrations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartlex/lexml/pkg/errors"
	"github.com/smartlex/lexml/pkg/types/common"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

// Client talks to one LexML API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New builds a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeBadRequest, "server URL cannot be empty")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Analyze submits contract text for analysis.
func (c *Client) Analyze(ctx context.Context, text string, persist bool) (*typescontract.AnalysisReport, error) {
	req := typescontract.AnalyzeRequest{Text: text, Persist: &persist}
	var report typescontract.AnalysisReport
	if err := c.post(ctx, "/api/v1/contracts/analyze", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// History fetches the most recent analyses.  limit 0 uses the server
// default.
func (c *Client) History(ctx context.Context, limit int) (*typescontract.HistoryResponse, error) {
	path := "/api/v1/contracts/history"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var hist typescontract.HistoryResponse
	if err := c.get(ctx, path, &hist); err != nil {
		return nil, err
	}
	return &hist, nil
}

// Healthy reports whether the server answers its liveness probe.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "server unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrCodeServiceUnavailable, "server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	return c.do(req, dest)
}

// do executes the request and unwraps the API envelope into dest.
func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "request failed")
	}
	defer resp.Body.Close()

	var envelope common.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode response")
	}

	if !envelope.Success {
		code := errors.ErrorCode("UNKNOWN")
		message := "request failed"
		if envelope.Error != nil {
			code = errors.ErrorCode(envelope.Error.Code)
			message = envelope.Error.Message
		}
		return errors.New(code, message)
	}

	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to re-encode payload")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode payload")
	}
	return nil
}
