package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX. If an HX-Trigger header already exists, the toast
// payload is merged into the existing JSON object.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = payload

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	// Also set a flash cookie for non-HTMX redirects (302) where HX-Trigger is lost
	if cookieVal, err := json.Marshal(payload); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

func wantsHTML(e *core.RequestEvent) bool {
	return strings.Contains(e.Request.Header.Get("Accept"), "text/html")
}

// respondError answers HTMX requests with an error toast and API clients
// with a JSON {"message": ...} body.
func respondError(e *core.RequestEvent, statusCode int, message string) error {
	if isHTMX(e) {
		return ErrorToast(e, statusCode, message)
	}
	return e.JSON(statusCode, map[string]any{"message": message})
}

// respond renders the partial for HTMX requests, the full page for browsers
// and data as JSON for everything else.
func respond(e *core.RequestEvent, data any, partial, page func() templ.Component) error {
	switch {
	case isHTMX(e):
		return partial().Render(e.Request.Context(), e.Response)
	case wantsHTML(e):
		return page().Render(e.Request.Context(), e.Response)
	}
	return e.JSON(http.StatusOK, data)
}
