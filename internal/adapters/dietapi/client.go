// Package dietapi talks to the diet backend that owns accounts, profiles,
// food-image analysis and meal history.
package dietapi

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

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

const maxErrorBody = 512

var (
	_ domain.AuthGateway     = (*Client)(nil)
	_ domain.ProfileGateway  = (*Client)(nil)
	_ domain.AnalysisGateway = (*Client)(nil)
	_ domain.HistoryGateway  = (*Client)(nil)
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorEnvelope covers both failure shapes the backend uses: {"error": "..."}
// with a 200 status for business errors and {"detail": ...} for HTTP errors.
type errorEnvelope struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) newRequest(ctx context.Context, method, endpoint, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("diet api: building %s %s: %w", method, endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint, token string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("diet api: encoding %s payload: %w", endpoint, err)
	}

	req, err := c.newRequest(ctx, method, endpoint, token, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes req and decodes a successful body into out. Business errors
// reported inside a 200 body are handed to mapError.
func (c *Client) do(req *http.Request, out any, mapError func(msg string) error) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("diet api: %s %s: %w", req.Method, req.URL.Path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if err := statusError(resp.StatusCode, body); err != nil {
		return err
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		if mapError != nil {
			if mapped := mapError(envelope.Error); mapped != nil {
				return mapped
			}
		}
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("diet api: parsing %s response: %w", req.URL.Path, err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	msg := detailMessage(body)
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrAnalysisRejected, msg)
	case code >= 500:
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, &domain.UpstreamError{StatusCode: code, Message: msg})
	default:
		return &domain.UpstreamError{StatusCode: code, Message: msg}
	}
}

func detailMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		var detail string
		if len(envelope.Detail) > 0 && json.Unmarshal(envelope.Detail, &detail) == nil {
			return detail
		}
		if len(envelope.Detail) > 0 {
			return truncate(string(envelope.Detail))
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/docs", "", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(domain.ErrUpstreamUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}
