package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
	"estimator/templates"
)

func statusBadgeClass(status string) string {
	switch status {
	case "active":
		return "badge-success"
	case "completed":
		return "badge-info"
	case "on_hold":
		return "badge-warning"
	default:
		return "badge-ghost"
	}
}

// HandleProjectList lists every project with its total, payments and
// balance.
func HandleProjectList(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, projects, bad, err := collections.LoadProjects(app)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		for _, err := range bad {
			log.Printf("project_list: %v", err)
		}

		items := make([]templates.ProjectListItem, 0, len(records))
		for i, rec := range records {
			s := roundedSummary(calc.Summarize(projects[i]))

			createdDate := "—"
			if dt := rec.GetDateTime("created"); !dt.IsZero() {
				createdDate = dt.Time().Format("02 Jan 2006")
			}

			status := rec.GetString("status")
			items = append(items, templates.ProjectListItem{
				ID:               rec.Id,
				Name:             rec.GetString("name"),
				ClientName:       rec.GetString("client_name"),
				Status:           status,
				StatusBadgeClass: statusBadgeClass(status),
				StartDate:        rec.GetString("start_date"),
				Total:            services.FormatCurrency(s.Costs.TotalProjectValue),
				Paid:             services.FormatCurrency(s.Payments.TotalPaid),
				Balance:          services.FormatCurrency(s.Payments.RemainingBalance),
				IsFullyPaid:      s.Payments.IsFullyPaid,
				OverdueCount:     len(s.Payments.OverduePayments),
				CreatedDate:      createdDate,
			})
		}

		data := templates.ProjectListData{
			Items:      items,
			TotalCount: len(items),
		}
		return respond(e, data,
			func() templ.Component { return templates.ProjectListContent(data) },
			func() templ.Component { return templates.ProjectListPage(data) },
		)
	}
}
