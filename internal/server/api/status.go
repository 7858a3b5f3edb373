package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// Controller is the part of the running app the status API needs.
type Controller interface {
	Status() app.Status
	SetEnabled(enabled bool)
	IsEnabled() bool
}

// StatusHandler serves GET /api/status and POST /api/status/toggle.
type StatusHandler struct {
	app Controller
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(c Controller) *StatusHandler {
	return &StatusHandler{app: c}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/status":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.app.Status())

	case "/api/status/toggle":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.app.SetEnabled(!h.app.IsEnabled())
		writeJSON(w, http.StatusOK, h.app.Status())

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
