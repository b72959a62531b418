// Package debugclient talks to a running server's debug API.
package debugclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kx0101/devoverlay/internal/models"
)

const tokenHeader = "X-Debug-Token"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func NewClient(baseURL, token string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("invalid scheme in baseURL")
	}

	if parsed.Host == "" {
		return nil, fmt.Errorf("baseURL has no host")
	}

	return &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Logs returns captured log entries, newest first. An empty level returns all.
func (c *Client) Logs(ctx context.Context, level models.Level) ([]models.LogEntry, error) {
	path := "/api/debug/logs"
	if level != "" {
		path += "?level=" + url.QueryEscape(string(level))
	}

	var out []models.LogEntry
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ErrorLogs(ctx context.Context) ([]models.LogEntry, error) {
	var out []models.LogEntry
	if err := c.get(ctx, "/api/debug/logs/errors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Successful(ctx context.Context) ([]models.RequestEntry, error) {
	var out []models.RequestEntry
	if err := c.get(ctx, "/api/debug/requests/successful", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Failed(ctx context.Context) ([]models.RequestEntry, error) {
	var out []models.RequestEntry
	if err := c.get(ctx, "/api/debug/requests/failed", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Summary(ctx context.Context) (*models.Summary, error) {
	var out models.Summary
	if err := c.get(ctx, "/api/debug/summary", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear empties every buffer on the server.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/debug", http.StatusNoContent)
	return err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, http.StatusOK)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, want int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req) // #nosec G704: baseURL validated in constructor
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != want {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
