package handler

import (
	"errors"
	"net/http"

	"github.com/kx0101/devoverlay/internal/models"
)

const databaseName = "Neon PostgreSQL"

var errNoDatabase = errors.New("database is not configured")

type testDBResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
	Database  string `json:"database,omitempty"`
	Error     string `json:"error,omitempty"`
}

// TestDB runs SELECT NOW() and reports whether the database answered.
func (h *Handler) TestDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.dbFailure(w, errNoDatabase)
		return
	}

	now, err := h.db.Now(r.Context())
	if err != nil {
		h.dbFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, testDBResponse{
		Status:    "success",
		Message:   "Database connection successful",
		Timestamp: models.FormatTimestamp(now),
		Database:  databaseName,
	})
}

func (h *Handler) dbFailure(w http.ResponseWriter, err error) {
	h.logger.Error("Database connection error", "error", err)
	respondJSON(w, http.StatusInternalServerError, testDBResponse{
		Status:  "error",
		Message: "Failed to connect to database",
		Error:   err.Error(),
	})
}
