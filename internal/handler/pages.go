package handler

import (
	"net/http"

	"github.com/kx0101/devoverlay/internal/middleware"
)

func (h *Handler) pageData(r *http.Request, nav, title string) map[string]any {
	return map[string]any{
		"Title":     title,
		"ActiveNav": nav,
		"DebugMode": middleware.DebugMode(r.Context()),
		"RequestID": middleware.GetRequestID(r.Context()),
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, "home", "Home")
	data["DemoRuns"] = h.demoRuns.Load()

	if err := h.templates.Render(w, "pages/home.html", data); err != nil {
		h.logger.Error("error rendering home page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Render(w, "pages/about.html", h.pageData(r, "about", "About")); err != nil {
		h.logger.Error("error rendering about page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
