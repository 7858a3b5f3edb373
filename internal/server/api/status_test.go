package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

type fakeController struct {
	mu      sync.Mutex
	enabled bool
	status  app.Status
}

func (f *fakeController) Status() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.status
	s.Enabled = f.enabled
	return s
}

func (f *fakeController) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func (f *fakeController) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func TestStatusHandler_Get(t *testing.T) {
	ctl := &fakeController{
		enabled: true,
		status:  app.Status{Running: true, LastRaw: gesture.LabelPalm, LastDispatched: gesture.LabelNext, Dispatches: 3, Frames: 120},
	}
	handler := NewStatusHandler(ctl)

	rec := serve(handler, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got["enabled"] != true || got["running"] != true {
		t.Errorf("unexpected flags: %v", got)
	}
	if got["last_raw"] != "palm" || got["last_dispatched"] != "next" {
		t.Errorf("unexpected labels: %v", got)
	}
	if got["dispatches"] != float64(3) || got["frames"] != float64(120) {
		t.Errorf("unexpected counters: %v", got)
	}
}

func TestStatusHandler_Toggle(t *testing.T) {
	ctl := &fakeController{enabled: true}
	handler := NewStatusHandler(ctl)

	rec := serve(handler, http.MethodPost, "/api/status/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ctl.IsEnabled() {
		t.Error("expected detection to be disabled after toggle")
	}

	serve(handler, http.MethodPost, "/api/status/toggle", "")
	if !ctl.IsEnabled() {
		t.Error("expected detection to be enabled after second toggle")
	}

	if rec := serve(handler, http.MethodGet, "/api/status/toggle", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET toggle: expected %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
	if rec := serve(handler, http.MethodPost, "/api/status", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status: expected %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
