// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

// FixedNow is the clock of TestEngine.
var FixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// TestEngine returns an engine with default limits and a clock fixed at FixedNow.
func TestEngine() *services.Engine {
	cfg := services.DefaultEngineConfig()
	cfg.Now = func() time.Time { return FixedNow }
	return services.NewEngine(cfg)
}

// TestCalculator returns a calculator over TestEngine with a small cache.
func TestCalculator() *services.Calculator {
	return services.NewCalculator(TestEngine(), services.NewTotalsCache(16))
}

// SampleProject is a single painting item over one 100 sqft surface at 2.00
// material and 3.00 labor per unit, 10% tax and 20% markup, a 50.00
// transportation fee and a paid 200.00 deposit. Its total is 700.00.
func SampleProject(customer string) services.Project {
	isPaid := true
	return services.Project{
		CustomerInfo: services.CustomerInfo{Name: customer, StartDate: "2025-03-01"},
		Categories: []services.Category{{
			Key:  "interior",
			Name: "Interior",
			WorkItems: []services.WorkItem{{
				Name:            "Paint walls",
				MeasurementType: string(services.MeasurementSingleSurface),
				MaterialCost:    services.Num(2),
				LaborCost:       services.Num(3),
				Surfaces:        []services.Surface{{Name: "Wall", Sqft: services.Num(100)}},
			}},
		}},
		Settings: &services.Settings{
			TaxRate:           services.Num(0.1),
			Markup:            services.Num(0.2),
			TransportationFee: services.Num(50),
			Payments: []services.Payment{
				{ID: "PAY-2025-001", Amount: services.Num(200), Date: "2025-02-20", Type: "Deposit", IsPaid: &isPaid},
			},
		},
	}
}

// CreateTestProject creates a project record holding SampleProject and
// returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return CreateTestProjectWith(t, app, name, SampleProject(name+" Customer"))
}

// CreateTestProjectWith creates a project record holding p, with snapshots.
func CreateTestProjectWith(t *testing.T, app *pocketbase.PocketBase, name string, p services.Project) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.ProjectsCollection)
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := collections.SaveProject(app, record, p, TestEngine()); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// LoadTestProject reloads a project record and decodes it.
func LoadTestProject(t *testing.T, app *pocketbase.PocketBase, id string) (*core.Record, services.Project) {
	t.Helper()

	rec, err := app.FindRecordById(collections.ProjectsCollection, id)
	if err != nil {
		t.Fatalf("failed to load project %s: %v", id, err)
	}
	p, err := collections.ProjectFromRecord(rec)
	if err != nil {
		t.Fatalf("failed to decode project %s: %v", id, err)
	}
	return rec, p
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
