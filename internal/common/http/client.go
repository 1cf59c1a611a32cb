// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/resilience"
)

// Client calls the knowledge API. Every request runs under the timeout
// budget and retry policy it was built with.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	retry      resilience.RetryConfig
	headers    http.Header
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, retry resilience.RetryConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		retry:      retry,
		headers:    http.Header{},
		logger:     logger.OrNoOp(log),
	}
}

// WithHeader sets a header sent on every request.
func (c *Client) WithHeader(key, value string) *Client {
	c.headers.Set(key, value)
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// DoJSON sends body as JSON and decodes a 2xx response into out. Non-2xx
// statuses become classified errors; a JSON error envelope from the server
// keeps its type.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out interface{}) error {
	return c.DoJSONWithHeaders(ctx, method, path, nil, body, out)
}

// DoJSONWithHeaders is DoJSON with extra headers for this request only.
func (c *Client) DoJSONWithHeaders(ctx context.Context, method, path string, headers http.Header, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	_, err := resilience.WithTimeoutAndRetry(ctx, c.timeout, c.retry, c.logger, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, path, headers, payload, out)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, headers http.Header, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewUnknownError(err.Error())
	}
	for _, h := range []http.Header{c.headers, headers} {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.FromContext(ctx, "Request aborted")
		}
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewUnknownError(fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

// decodeError maps an error response back onto the error taxonomy.
func decodeError(status int, data []byte) error {
	var envelope apperrors.ErrorBody
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Type != "" {
		detail := envelope.Error
		switch {
		case detail.AIUnavailable:
			return fmt.Errorf("%s: %w", detail.Message, apperrors.ErrAIServiceUnavailable)
		case status == http.StatusBadRequest:
			return apperrors.NewValidationError(detail.Field, detail.Message)
		}
		if t, err := apperrors.ParseErrorType(detail.Type); err == nil {
			ne := apperrors.NewStatusError(status, detail.Message)
			ne.Type = t
			ne.Retryable = detail.Retryable
			return ne
		}
	}
	return apperrors.NewStatusError(status, http.StatusText(status))
}
