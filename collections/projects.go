package collections

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// projectData is the shape stored in projects.data.
type projectData struct {
	CustomerInfo services.CustomerInfo `json:"customerInfo"`
	Categories   []services.Category   `json:"categories"`
	Settings     *services.Settings    `json:"settings,omitempty"`
}

// decodeJSONField unmarshals a JSON field into dst. An empty or null field
// leaves dst untouched and reports false.
func decodeJSONField(rec *core.Record, field string, dst any) (bool, error) {
	raw := strings.TrimSpace(rec.GetString(field))
	if raw == "" || raw == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s.%s: %w", rec.Id, field, err)
	}
	return true, nil
}

// ProjectFromRecord decodes a projects record into the calculation model,
// including any stored snapshots.
func ProjectFromRecord(rec *core.Record) (services.Project, error) {
	var data projectData
	if _, err := decodeJSONField(rec, "data", &data); err != nil {
		return services.Project{}, err
	}
	p := services.Project{
		ID:           rec.Id,
		CustomerInfo: data.CustomerInfo,
		Categories:   data.Categories,
		Settings:     data.Settings,
	}

	var totals services.TotalsSnapshot
	ok, err := decodeJSONField(rec, "totals", &totals)
	if err != nil {
		return services.Project{}, err
	}
	if ok {
		p.Totals = &totals
	}

	var payments services.PaymentSnapshot
	ok, err = decodeJSONField(rec, "payment_details", &payments)
	if err != nil {
		return services.Project{}, err
	}
	if ok {
		p.PaymentDetails = &payments
	}
	return p, nil
}

// SetProjectData stores p's calculation input on rec and mirrors the
// customer name and start date into their own columns. Stored snapshots
// are left as they are.
func SetProjectData(rec *core.Record, p services.Project) {
	rec.Set("data", projectData{
		CustomerInfo: p.CustomerInfo,
		Categories:   p.Categories,
		Settings:     p.Settings,
	})
	rec.Set("client_name", p.CustomerInfo.Name)
	rec.Set("start_date", p.CustomerInfo.StartDate)
}

// SetSnapshots recomputes p and stores the totals and payment snapshots
// together with the fingerprint they were taken from.
func SetSnapshots(rec *core.Record, p services.Project, engine *services.Engine) {
	totals, payments := engine.NewSnapshots(p)
	rec.Set("totals", totals)
	rec.Set("payment_details", payments)
	rec.Set("fingerprint", totals.Fingerprint)
}

// SaveProject stores p on rec, refreshes its snapshots and saves it.
func SaveProject(app *pocketbase.PocketBase, rec *core.Record, p services.Project, engine *services.Engine) error {
	SetProjectData(rec, p)
	SetSnapshots(rec, p, engine)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save project %q: %w", rec.GetString("name"), err)
	}
	return nil
}

// LoadProjects returns every project record, oldest first, with its decoded
// model. Records whose data cannot be decoded are skipped and reported.
func LoadProjects(app *pocketbase.PocketBase) ([]*core.Record, []services.Project, []error, error) {
	records, err := app.FindRecordsByFilter(ProjectsCollection, "id != ''", "created", 0, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query projects: %w", err)
	}
	var (
		kept     []*core.Record
		projects []services.Project
		bad      []error
	)
	for _, rec := range records {
		p, err := ProjectFromRecord(rec)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		kept = append(kept, rec)
		projects = append(projects, p)
	}
	return kept, projects, bad, nil
}
