package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultSuccessPath = "/health"
	missingPath        = "/api/non-existent-endpoint"

	maxDemoBody = 64 << 10
)

type demoLogsResponse struct {
	Logged int   `json:"logged"`
	Count  int64 `json:"count"`
}

type demoRequestResponse struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Body   any    `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DemoLogs writes one batch of sample log lines through the default logger.
func (h *Handler) DemoLogs(w http.ResponseWriter, r *http.Request) {
	count := h.demoRuns.Load()

	h.logger.Info("Regular log message", "count", count)
	h.logger.Info("Info message from button click")
	h.logger.Warn("Warning: this is a test warning")
	h.logger.Error("Error: this is a test error")

	respondJSON(w, http.StatusOK, demoLogsResponse{Logged: 4, Count: h.demoRuns.Add(1)})
}

// DemoSuccess calls one of this server's own endpoints through the
// instrumented client. ?path= picks the endpoint; /health is the default.
func (h *Handler) DemoSuccess(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("path")
	if target == "" {
		target = defaultSuccessPath
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		respondError(w, http.StatusBadRequest, "path must be an absolute path on this server")
		return
	}

	resp, err := h.get(r.Context(), target)
	if err != nil {
		h.logger.Error("Demo request failed", "url", resp.URL, "error", err)
		respondJSON(w, http.StatusBadGateway, resp)
		return
	}

	h.logger.Info("Request result", "url", resp.URL, "status", resp.Status, "body", resp.Body)
	respondJSON(w, http.StatusOK, resp)
}

// DemoFailure requests an endpoint that does not exist, so the call lands in
// the failed-request buffer.
func (h *Handler) DemoFailure(w http.ResponseWriter, r *http.Request) {
	resp, err := h.get(r.Context(), missingPath)
	if err != nil {
		h.logger.Error("Expected error from non-existent endpoint", "error", err)
		respondJSON(w, http.StatusBadGateway, resp)
		return
	}

	if resp.Status >= 200 && resp.Status < 300 {
		h.logger.Info("This should not execute", "body", resp.Body)
	} else {
		h.logger.Error("Expected error from non-existent endpoint", "url", resp.URL, "status", resp.Status)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(ctx context.Context, target string) (demoRequestResponse, error) {
	out := demoRequestResponse{URL: h.baseURL + target}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, out.URL, nil)
	if err != nil {
		out.Error = err.Error()
		return out, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		out.Error = err.Error()
		return out, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	out.Status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDemoBody))
	if err != nil {
		out.Error = err.Error()
		return out, fmt.Errorf("reading response: %w", err)
	}

	var decoded any
	if json.Unmarshal(body, &decoded) == nil {
		out.Body = decoded
	} else if len(body) > 0 {
		out.Body = strings.TrimSpace(string(body))
	}

	return out, nil
}
