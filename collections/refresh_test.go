package collections_test

import (
	"testing"

	"estimator/collections"
	"estimator/services"
	"estimator/testhelpers"
)

func TestRefreshSnapshots_StaleRecords(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	legacy := createLegacyProject(t, app)
	current := testhelpers.CreateTestProject(t, app, "Current")

	calc := testhelpers.TestCalculator()
	n, err := collections.RefreshSnapshots(app, calc)
	if err != nil {
		t.Fatalf("RefreshSnapshots() error: %v", err)
	}
	if n != 1 {
		t.Errorf("refreshed = %d, want 1", n)
	}

	rec, p := testhelpers.LoadTestProject(t, app, legacy.Id)
	if p.Totals == nil || p.PaymentDetails == nil {
		t.Fatal("snapshots missing after refresh")
	}
	fp := calc.Engine().Fingerprint(p)
	if rec.GetString("fingerprint") != fp || p.Totals.Fingerprint != fp {
		t.Errorf("fingerprint not refreshed")
	}
	// 150 sqft at 1.00 + 2.00 = 450.00, 100.00 legacy deposit
	if p.Totals.TotalProjectValue != 450 {
		t.Errorf("total = %v, want 450", p.Totals.TotalProjectValue)
	}
	if p.PaymentDetails.TotalPaid != 100 {
		t.Errorf("paid = %v, want 100", p.PaymentDetails.TotalPaid)
	}

	_, cp := testhelpers.LoadTestProject(t, app, current.Id)
	if cp.Totals.Fingerprint != calc.Engine().Fingerprint(cp) {
		t.Error("current project snapshot should stay valid")
	}
}

func TestRefreshSnapshots_AfterEditOutsideSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Edited")
	_, p := testhelpers.LoadTestProject(t, app, rec.Id)

	p.Categories[0].WorkItems[0].LaborCost = p.Categories[0].WorkItems[0].MaterialCost
	collections.SetProjectData(rec, p)
	if err := app.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	n, err := collections.RefreshSnapshots(app, testhelpers.TestCalculator())
	if err != nil {
		t.Fatalf("RefreshSnapshots() error: %v", err)
	}
	if n != 1 {
		t.Errorf("refreshed = %d, want 1", n)
	}
	_, after := testhelpers.LoadTestProject(t, app, rec.Id)
	// labor now 2.00 per sqft: subtotal 400, tax 40, markup 80, transport 50
	if after.Totals.TotalProjectValue != 570 {
		t.Errorf("total = %v, want 570", after.Totals.TotalProjectValue)
	}

	n, _ = collections.RefreshSnapshots(app, testhelpers.TestCalculator())
	if n != 0 {
		t.Errorf("second refresh rewrote %d project(s), want 0", n)
	}
}

func TestRefreshSnapshots_AfterLimitChange(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Limits")

	if n, _ := collections.RefreshSnapshots(app, testhelpers.TestCalculator()); n != 0 {
		t.Fatalf("refresh under unchanged limits rewrote %d project(s)", n)
	}

	cfg := services.DefaultEngineConfig()
	cfg.PaidTolerance = 5
	calc := services.NewCalculator(services.NewEngine(cfg), nil)
	n, err := collections.RefreshSnapshots(app, calc)
	if err != nil {
		t.Fatalf("RefreshSnapshots() error: %v", err)
	}
	if n != 1 {
		t.Errorf("refreshed = %d, want 1", n)
	}

	stored, p := testhelpers.LoadTestProject(t, app, rec.Id)
	fp := calc.Engine().Fingerprint(p)
	if stored.GetString("fingerprint") != fp || p.Totals.Fingerprint != fp {
		t.Error("fingerprint not rewritten for the new limits")
	}
	if got := calc.Summarize(p); got.Source != services.SourceSnapshot {
		t.Errorf("Source = %s, want snapshot", got.Source)
	}
}
