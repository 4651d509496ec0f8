package collections_test

import (
	"testing"

	"estimator/collections"
	"estimator/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestSetup_ProjectsCollectionExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("collection %q not found after Setup(): %v", "projects", err)
	}
	if col.Name != "projects" {
		t.Errorf("expected collection name %q, got %q", "projects", col.Name)
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	col, _ := app.FindCollectionByNameOrId("projects")
	id := col.Id

	collections.Setup(app)

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("projects missing after second Setup(): %v", err)
	}
	if col.Id != id {
		t.Errorf("projects id changed after second Setup(): %s -> %s", id, col.Id)
	}
}

func TestSetup_ProjectsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("projects")

	fields := []string{
		"name", "client_name", "status", "start_date",
		"data", "totals", "payment_details", "fingerprint",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("projects: missing field %q", f)
		}
	}

	for _, f := range []string{"data", "totals", "payment_details"} {
		if _, ok := col.Fields.GetByName(f).(*core.JSONField); !ok {
			t.Errorf("projects.%s is not a JSONField", f)
		}
	}

	statusField := col.Fields.GetByName("status")
	sf, ok := statusField.(*core.SelectField)
	if !ok {
		t.Fatalf("status field is not a SelectField")
	}
	expected := map[string]bool{"estimate": true, "active": true, "completed": true, "on_hold": true}
	for _, v := range sf.Values {
		if !expected[v] {
			t.Errorf("unexpected status value: %q", v)
		}
		delete(expected, v)
	}
	for v := range expected {
		t.Errorf("missing status value: %q", v)
	}
}
