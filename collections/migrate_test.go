package collections_test

import (
	"testing"

	"estimator/collections"
	"estimator/services"
	"estimator/testhelpers"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// createLegacyProject stores a project with flat item measurements and a
// flat deposit, without snapshots.
func createLegacyProject(t *testing.T, app *pocketbase.PocketBase) *core.Record {
	t.Helper()
	p := services.Project{
		CustomerInfo: services.CustomerInfo{Name: "Legacy Customer", StartDate: "2023-09-01"},
		Categories: []services.Category{{
			Key:  "interior",
			Name: "Interior",
			WorkItems: []services.WorkItem{{
				Name:         "Ceiling",
				MaterialCost: services.Num(1),
				LaborCost:    services.Num(2),
				Sqft:         services.Num(150),
			}},
		}},
		Settings: &services.Settings{Deposit: services.Num(100)},
	}
	col, _ := app.FindCollectionByNameOrId("projects")
	rec := core.NewRecord(col)
	rec.Set("name", "Legacy")
	rec.Set("status", "completed")
	collections.SetProjectData(rec, p)
	if err := app.Save(rec); err != nil {
		t.Fatalf("save legacy project: %v", err)
	}
	return rec
}

func TestMigrateLegacyProjects_UpgradesShape(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := createLegacyProject(t, app)
	_, before := testhelpers.LoadTestProject(t, app, rec.Id)

	n, err := collections.MigrateLegacyProjects(app)
	if err != nil {
		t.Fatalf("MigrateLegacyProjects() error: %v", err)
	}
	if n != 1 {
		t.Errorf("migrated = %d, want 1", n)
	}

	_, after := testhelpers.LoadTestProject(t, app, rec.Id)
	item := after.Categories[0].WorkItems[0]
	if len(item.Surfaces) != 1 || item.Surfaces[0].Sqft.Float() != 150 {
		t.Errorf("surfaces = %+v", item.Surfaces)
	}
	if item.Sqft.IsSet() {
		t.Error("flat sqft should be cleared")
	}
	if len(after.Settings.Payments) != 1 || !after.Settings.Payments[0].IsDeposit() {
		t.Errorf("payments = %+v", after.Settings.Payments)
	}

	engine := testhelpers.TestEngine()
	b, a := engine.Summarize(before), engine.Summarize(after)
	if b.Costs.TotalProjectValue != a.Costs.TotalProjectValue || b.Payments.TotalPaid != a.Payments.TotalPaid {
		t.Errorf("figures changed: total %v -> %v, paid %v -> %v",
			b.Costs.TotalProjectValue, a.Costs.TotalProjectValue, b.Payments.TotalPaid, a.Payments.TotalPaid)
	}
}

func TestMigrateLegacyProjects_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	createLegacyProject(t, app)

	if _, err := collections.MigrateLegacyProjects(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	n, err := collections.MigrateLegacyProjects(app)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if n != 0 {
		t.Errorf("second run migrated %d project(s), want 0", n)
	}
}

func TestMigrateLegacyProjects_CurrentShapeUntouched(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Current")
	updated := rec.GetDateTime("updated").String()

	n, err := collections.MigrateLegacyProjects(app)
	if err != nil {
		t.Fatalf("MigrateLegacyProjects() error: %v", err)
	}
	if n != 0 {
		t.Errorf("migrated = %d, want 0", n)
	}
	reloaded, _ := testhelpers.LoadTestProject(t, app, rec.Id)
	if reloaded.GetDateTime("updated").String() != updated {
		t.Error("current project was rewritten")
	}
}
