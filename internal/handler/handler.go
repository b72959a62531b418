package handler

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kx0101/devoverlay/internal/inspect"
)

// Database is the part of the db helper the handlers need.
type Database interface {
	Now(ctx context.Context) (time.Time, error)
}

type Handler struct {
	inspector *inspect.Inspector
	db        Database
	templates *Templates
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	demoRuns  atomic.Int64
}

type HandlerOptions struct {
	Inspector   *inspect.Inspector
	DB          Database
	TemplatesFS fs.FS
	Logger      *slog.Logger

	// Client sends the demo requests. It should be the instrumented client
	// so the requests show up in the overlay.
	Client  *http.Client
	BaseURL string
}

func New(opts HandlerOptions) (*Handler, error) {
	templates, err := NewTemplates(opts.TemplatesFS)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	inspector := opts.Inspector
	if inspector == nil {
		inspector = inspect.New(nil, nil)
	}

	return &Handler{
		inspector: inspector,
		db:        opts.DB,
		templates: templates,
		logger:    logger,
		client:    client,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
