package collections_test

import (
	"testing"

	"estimator/collections"
	"estimator/services"
	"estimator/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestSaveProject_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Round Trip")

	_, p := testhelpers.LoadTestProject(t, app, rec.Id)

	if p.ID != rec.Id {
		t.Errorf("ID = %q, want %q", p.ID, rec.Id)
	}
	if p.CustomerInfo.Name != "Round Trip Customer" {
		t.Errorf("customer = %q", p.CustomerInfo.Name)
	}
	if len(p.Categories) != 1 || len(p.Categories[0].WorkItems) != 1 {
		t.Fatalf("categories = %+v", p.Categories)
	}
	if p.Settings == nil || p.Settings.TaxRate.Float() != 0.1 {
		t.Errorf("settings = %+v", p.Settings)
	}
	if p.Totals == nil || p.PaymentDetails == nil {
		t.Fatal("snapshots were not stored")
	}
	fp := testhelpers.TestEngine().Fingerprint(p)
	if p.Totals.Fingerprint != fp || p.PaymentDetails.Fingerprint != fp {
		t.Errorf("snapshot fingerprints %q/%q, want %q", p.Totals.Fingerprint, p.PaymentDetails.Fingerprint, fp)
	}
	if got := rec.GetString("fingerprint"); got != fp {
		t.Errorf("fingerprint column = %q, want %q", got, fp)
	}
	if p.Totals.TotalProjectValue != 700 {
		t.Errorf("stored total = %v, want 700", p.Totals.TotalProjectValue)
	}
	if got := rec.GetString("client_name"); got != "Round Trip Customer" {
		t.Errorf("client_name = %q", got)
	}
	if got := rec.GetString("start_date"); got != "2025-03-01" {
		t.Errorf("start_date = %q", got)
	}
}

func TestProjectFromRecord_StoredSnapshotIsServed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Snapshot")
	_, p := testhelpers.LoadTestProject(t, app, rec.Id)

	calc := services.NewCalculator(testhelpers.TestEngine(), nil)
	s := calc.Summarize(p)
	if s.Source != services.SourceSnapshot {
		t.Errorf("Source = %q, want %q", s.Source, services.SourceSnapshot)
	}
	if s.Costs.TotalProjectValue != 700 {
		t.Errorf("total = %v, want 700", s.Costs.TotalProjectValue)
	}
}

func TestProjectFromRecord_EmptyData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.ProjectsCollection)
	rec := core.NewRecord(col)
	rec.Set("name", "Blank")
	rec.Set("status", "estimate")
	if err := app.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	p, err := collections.ProjectFromRecord(rec)
	if err != nil {
		t.Fatalf("ProjectFromRecord: %v", err)
	}
	if len(p.Categories) != 0 || p.Settings != nil || p.Totals != nil || p.PaymentDetails != nil {
		t.Errorf("expected empty project, got %+v", p)
	}
}

func TestLoadProjects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "One")
	testhelpers.CreateTestProject(t, app, "Two")

	records, projects, bad, err := collections.LoadProjects(app)
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if len(bad) != 0 {
		t.Errorf("bad = %v", bad)
	}
	if len(records) != 2 || len(projects) != 2 {
		t.Fatalf("got %d records, %d projects; want 2", len(records), len(projects))
	}
	for i := range records {
		if projects[i].ID != records[i].Id {
			t.Errorf("project %d id %q does not match record %q", i, projects[i].ID, records[i].Id)
		}
	}
}
