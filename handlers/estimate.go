package handlers

import (
	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
	"estimator/templates"
)

type estimateResponse struct {
	ProjectID string               `json:"projectId"`
	Name      string               `json:"name"`
	Source    string               `json:"source"`
	Costs     services.CostSummary `json:"costs"`
}

func createdDate(rec *core.Record) string {
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		return dt.Time().Format("02 Jan 2006")
	}
	return ""
}

// HandleEstimate returns the cost summary of a project: JSON for API
// clients, the estimate partial for HTMX requests.
func HandleEstimate(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "estimate", err)
		}

		s := calc.Summarize(p)
		resp := estimateResponse{
			ProjectID: rec.Id,
			Name:      rec.GetString("name"),
			Source:    s.Source,
			Costs:     s.Costs.Rounded(),
		}
		data := templates.EstimateData{
			ProjectID: rec.Id,
			Status:    rec.GetString("status"),
			Source:    s.Source,
			Export:    calc.Engine().BuildEstimateExport(p, s, createdDate(rec)),
			Errors:    s.Costs.Errors,
		}
		return respond(e, resp,
			func() templ.Component { return templates.EstimateContent(data) },
			func() templ.Component { return templates.EstimatePage(data) },
		)
	}
}
