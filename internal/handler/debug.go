package handler

import (
	"net/http"

	"github.com/kx0101/devoverlay/internal/models"
)

func (h *Handler) DebugLogs(w http.ResponseWriter, r *http.Request) {
	level := models.Level(r.URL.Query().Get("level"))
	if level == "" {
		respondJSON(w, http.StatusOK, h.inspector.Logs())
		return
	}

	if !level.Valid() {
		respondError(w, http.StatusBadRequest, "level must be one of info, warn, error, debug")
		return
	}

	respondJSON(w, http.StatusOK, h.inspector.LogsByLevel(level))
}

func (h *Handler) DebugErrorLogs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inspector.ErrorLogs())
}

func (h *Handler) DebugSuccessfulRequests(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inspector.SuccessfulRequests())
}

func (h *Handler) DebugFailedRequests(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inspector.FailedRequests())
}

func (h *Handler) DebugSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inspector.Summary())
}

func (h *Handler) DebugClear(w http.ResponseWriter, r *http.Request) {
	h.inspector.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// DebugPanel renders the overlay body. The overlay swaps it in on every poll.
func (h *Handler) DebugPanel(w http.ResponseWriter, r *http.Request) {
	successful := h.inspector.SuccessfulRequests()
	failed := h.inspector.FailedRequests()

	data := map[string]any{
		"Logs":       h.inspector.Logs(),
		"Successful": successful,
		"Failed":     failed,
		"Network":    len(successful) + len(failed),
		"Summary":    h.inspector.Summary(),
	}

	if err := h.templates.RenderPartial(w, "debug_panel", data); err != nil {
		h.logger.Error("error rendering debug panel", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
