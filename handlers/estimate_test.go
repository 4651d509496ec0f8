package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"estimator/services"
	"estimator/testhelpers"
)

func TestHandleEstimate_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Estimate JSON")

	req := httptest.NewRequest(http.MethodGet, "/projects/"+project.Id+"/estimate", nil)
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleEstimate(app, testhelpers.TestCalculator())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp estimateResponse
	decodeBody(t, rec, &resp)
	if resp.Source != services.SourceSnapshot {
		t.Errorf("source = %q, want stored snapshot", resp.Source)
	}
	c := resp.Costs
	checks := []struct {
		name      string
		got, want float64
	}{
		{"material", c.MaterialCost, 200},
		{"labor", c.LaborCost, 300},
		{"subtotal", c.Subtotal, 500},
		{"tax", c.Tax, 50},
		{"markup", c.Markup, 100},
		{"transportation", c.Transportation, 50},
		{"total", c.TotalProjectValue, 700},
	}
	for _, ck := range checks {
		if !floatClose(ck.got, ck.want) {
			t.Errorf("%s = %v, want %v", ck.name, ck.got, ck.want)
		}
	}
}

func TestHandleEstimate_HTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Estimate HTML")

	req := httptest.NewRequest(http.MethodGet, "/projects/"+project.Id+"/estimate", nil)
	req.SetPathValue("id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEstimate(app, testhelpers.TestCalculator())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="estimate"`,
		"Interior",
		"Paint walls",
		"$700.00",
		"/projects/"+project.Id+"/estimate/export/pdf",
	)
}

func TestHandleEstimate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/projects/nope/estimate", nil)
	req.SetPathValue("id", "nope")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEstimate(app, testhelpers.TestCalculator())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected an error toast for HTMX")
	}
}
