package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
)

func parseToast(t *testing.T, header string) map[string]string {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	raw, ok := parsed["showToast"]
	if !ok {
		t.Fatal("expected showToast key in HX-Trigger JSON")
	}
	var toast map[string]string
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("showToast value is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, "success", "Estimate saved")

	toast := parseToast(t, rec.Header().Get("HX-Trigger"))
	if toast["message"] != "Estimate saved" || toast["type"] != "success" {
		t.Errorf("toast = %v", toast)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected flash_toast cookie")
	}
}

func TestSetToast_MergesWithExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"refreshTotals":true}`)

	SetToast(e, "info", "Recalculated")

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := parsed["refreshTotals"]; !ok {
		t.Error("existing trigger was dropped")
	}
	if _, ok := parsed["showToast"]; !ok {
		t.Error("toast was not added")
	}
}

func TestSetToast_OverwritesInvalidExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "notValidJSON")

	SetToast(e, "error", "Overwritten")

	if toast := parseToast(t, rec.Header().Get("HX-Trigger")); toast["message"] != "Overwritten" {
		t.Errorf("toast = %v", toast)
	}
}

func TestErrorToast_SetsHeaderAndReswap(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	if err := ErrorToast(e, http.StatusNotFound, "Project not found"); err != nil {
		t.Fatalf("ErrorToast returned error: %v", err)
	}

	toast := parseToast(t, rec.Header().Get("HX-Trigger"))
	if toast["type"] != "error" || toast["message"] != "Project not found" {
		t.Errorf("toast = %v", toast)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("Expected HX-Reswap 'none', got %q", rec.Header().Get("HX-Reswap"))
	}
	if rec.Body.String() != "Project not found" {
		t.Errorf("Expected body 'Project not found', got %q", rec.Body.String())
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		htmx     bool
		wantJSON bool
	}{
		{"api client", false, true},
		{"htmx", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects/x", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(nil, req, rec)

			if err := respondError(e, http.StatusBadRequest, "bad filter"); err != nil {
				t.Fatalf("respondError: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
			var body map[string]any
			isJSON := json.Unmarshal(rec.Body.Bytes(), &body) == nil && body["message"] == "bad filter"
			if isJSON != tt.wantJSON {
				t.Errorf("JSON body = %v, want %v (body %q)", isJSON, tt.wantJSON, rec.Body.String())
			}
			if tt.htmx && rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none for HTMX")
			}
		})
	}
}

func TestRespond_Negotiation(t *testing.T) {
	text := func(s string) func() templ.Component {
		return func() templ.Component {
			return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, err := io.WriteString(w, s)
				return err
			})
		}
	}
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"json default", nil, `{"ok":true}`},
		{"htmx partial", map[string]string{"HX-Request": "true"}, "partial"},
		{"browser page", map[string]string{"Accept": "text/html,application/xhtml+xml"}, "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(nil, req, rec)

			if err := respond(e, map[string]bool{"ok": true}, text("partial"), text("page")); err != nil {
				t.Fatalf("respond: %v", err)
			}
			if got := rec.Body.String(); got != tt.want && got != tt.want+"\n" {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}
