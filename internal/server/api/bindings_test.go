package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedBinding(t *testing.T, s *store.Store, id, gesture string) {
	t.Helper()
	err := s.Bindings().Create(&store.Binding{
		ID:         id,
		Gesture:    gesture,
		PluginName: "keyboard",
		ActionName: "key",
		Params:     json.RawMessage(`{"key":"right"}`),
		Enabled:    true,
	})
	if err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBindingHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	seedBinding(t, s, "b2", "fist")
	handler := NewBindingHandler(s)

	rec := serve(handler, http.MethodGet, "/api/bindings", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(response.Bindings))
	}
	if response.Bindings[0].Gesture != "fist" {
		t.Errorf("expected bindings ordered by gesture, got %q first", response.Bindings[0].Gesture)
	}
}

func TestBindingHandler_List_Empty(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t))

	rec := serve(handler, http.MethodGet, "/api/bindings", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Body.String(); got != "{\"bindings\":[]}\n" {
		t.Errorf("expected empty list, got %q", got)
	}
}

func TestBindingHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	body := `{"gesture":"palm","plugin_name":"keyboard","action_name":"key","params":{"key":"esc"}}`
	rec := serve(handler, http.MethodPost, "/api/bindings", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if !created.Enabled {
		t.Error("expected new binding to be enabled")
	}

	stored, err := s.Bindings().GetByGesture("palm")
	if err != nil {
		t.Fatalf("binding not stored: %v", err)
	}
	if stored.ID != created.ID {
		t.Errorf("stored ID %q, response ID %q", stored.ID, created.ID)
	}
}

func TestBindingHandler_Create_Validation(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	handler := NewBindingHandler(s)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown gesture", `{"gesture":"wave","plugin_name":"k","action_name":"a"}`, http.StatusBadRequest},
		{"none gesture", `{"gesture":"none","plugin_name":"k","action_name":"a"}`, http.StatusBadRequest},
		{"missing plugin", `{"gesture":"fist","action_name":"a"}`, http.StatusBadRequest},
		{"missing action", `{"gesture":"fist","plugin_name":"k"}`, http.StatusBadRequest},
		{"duplicate gesture", `{"gesture":"next","plugin_name":"k","action_name":"a"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(handler, http.MethodPost, "/api/bindings", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBindingHandler_Get(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	handler := NewBindingHandler(s)

	rec := serve(handler, http.MethodGet, "/api/bindings/b1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Gesture != "next" || got.PluginName != "keyboard" {
		t.Errorf("unexpected binding %+v", got)
	}

	rec = serve(handler, http.MethodGet, "/api/bindings/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBindingHandler_Update(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	seedBinding(t, s, "b2", "fist")
	handler := NewBindingHandler(s)

	rec := serve(handler, http.MethodPut, "/api/bindings/b1", `{"params":{"key":"down"},"enabled":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	stored, err := s.Bindings().GetByID("b1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Enabled {
		t.Error("expected binding to be disabled")
	}
	if string(stored.Params) != `{"key":"down"}` {
		t.Errorf("params = %s", stored.Params)
	}
	if stored.Gesture != "next" {
		t.Errorf("gesture changed to %q", stored.Gesture)
	}

	rec = serve(handler, http.MethodPut, "/api/bindings/b1", `{"gesture":"fist"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d for taken gesture, got %d", http.StatusConflict, rec.Code)
	}

	rec = serve(handler, http.MethodPut, "/api/bindings/b1", `{"gesture":"next"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("rebinding to own gesture should succeed, got %d", rec.Code)
	}

	rec = serve(handler, http.MethodPut, "/api/bindings/missing", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBindingHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	handler := NewBindingHandler(s)

	rec := serve(handler, http.MethodDelete, "/api/bindings/b1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = serve(handler, http.MethodDelete, "/api/bindings/b1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBindingHandler_MethodNotAllowed(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t))

	if rec := serve(handler, http.MethodDelete, "/api/bindings", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("collection DELETE: expected %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
	if rec := serve(handler, http.MethodPost, "/api/bindings/x", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("item POST: expected %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestBindingHandler_RequiresJSONContentType(t *testing.T) {
	s := newTestStore(t)
	seedBinding(t, s, "b1", "next")
	handler := NewBindingHandler(s)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
	}{
		{"create as text/plain", http.MethodPost, "/api/bindings", "text/plain"},
		{"create without header", http.MethodPost, "/api/bindings", ""},
		{"update as form", http.MethodPut, "/api/bindings/b1", "application/x-www-form-urlencoded"},
	}

	body := `{"gesture":"unknown","plugin_name":"keyboard","action_name":"key","params":{"key":"x"}}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnsupportedMediaType {
				t.Errorf("expected status %d, got %d", http.StatusUnsupportedMediaType, rec.Code)
			}
		})
	}

	if _, err := s.Bindings().GetByGesture("unknown"); err == nil {
		t.Error("rejected request still created a binding")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bindings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("JSON with charset: expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestBindingHandler_UnknownGestureListsLabels(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t))

	rec := serve(handler, http.MethodPost, "/api/bindings", `{"gesture":"wave","plugin_name":"k","action_name":"a"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, l := range gesture.Labels {
		listed := strings.Contains(resp.Error, string(l))
		if l == gesture.LabelNone && listed {
			t.Errorf("error %q lists %q", resp.Error, l)
		}
		if l != gesture.LabelNone && !listed {
			t.Errorf("error %q does not list %q", resp.Error, l)
		}
	}
}
