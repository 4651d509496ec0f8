package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
	"estimator/templates"
)

// parseRevenueFilter reads ?year=, ?start= and ?end= into a filter.
func parseRevenueFilter(q url.Values) (services.RevenueFilter, error) {
	return services.ParseRevenueFilter(q.Get("year"), q.Get("start"), q.Get("end"))
}

// portfolio loads every readable project and summarizes those passing f.
func portfolio(app *pocketbase.PocketBase, calc *services.Calculator, f services.RevenueFilter) ([]services.PortfolioRow, services.RevenueReport, error) {
	records, projects, bad, err := collections.LoadProjects(app)
	if err != nil {
		return nil, services.RevenueReport{}, err
	}
	for _, err := range bad {
		log.Printf("revenue: %v", err)
	}

	summaries := calc.SummarizeAll(projects)
	report := services.AggregateRevenue(summaries, f)

	var rows []services.PortfolioRow
	for i, s := range summaries {
		if !f.MatchesSummary(s) {
			continue
		}
		rows = append(rows, services.PortfolioRow{
			ProjectID: records[i].Id,
			Name:      records[i].GetString("name"),
			Customer:  records[i].GetString("client_name"),
			Status:    records[i].GetString("status"),
			Summary:   s,
		})
	}
	return rows, report, nil
}

// HandleRevenue reports the markup and transportation revenue recognized
// on fully paid projects, optionally filtered by start date.
func HandleRevenue(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		f, err := parseRevenueFilter(e.Request.URL.Query())
		if err != nil {
			return respondError(e, http.StatusBadRequest, err.Error())
		}

		rows, report, err := portfolio(app, calc, f)
		if err != nil {
			log.Printf("revenue: could not query projects: %v", err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		report.AdditionalRevenue = report.AdditionalRevenue.Rounded()
		data := templates.RevenueData{
			FilterLabel: f.Label(),
			Report:      report,
			Rows:        make([]templates.RevenueRow, 0, len(rows)),
		}
		for _, r := range rows {
			data.Rows = append(data.Rows, templates.RevenueRow{
				ProjectID:   r.ProjectID,
				Name:        r.Name,
				Customer:    r.Customer,
				StartDate:   r.Summary.StartDate,
				IsFullyPaid: r.Summary.Payments.IsFullyPaid,
				Revenue:     r.Summary.Revenue.Rounded(),
			})
		}
		return respond(e, data,
			func() templ.Component { return templates.RevenueContent(data) },
			func() templ.Component { return templates.RevenuePage(data) },
		)
	}
}

type projectRevenueResponse struct {
	ProjectID   string                     `json:"projectId"`
	Name        string                     `json:"name"`
	IsFullyPaid bool                       `json:"isFullyPaid"`
	Revenue     services.AdditionalRevenue `json:"revenue"`
}

// HandleProjectRevenue returns the gated revenue of a single project.
func HandleProjectRevenue(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "project_revenue", err)
		}
		s := calc.Summarize(p)
		resp := projectRevenueResponse{
			ProjectID:   rec.Id,
			Name:        rec.GetString("name"),
			IsFullyPaid: s.Payments.IsFullyPaid,
			Revenue:     s.Revenue.Rounded(),
		}
		content := func() templ.Component {
			return templates.ProjectRevenueContent(resp.ProjectID, resp.Name, resp.IsFullyPaid, resp.Revenue)
		}
		return respond(e, resp, content,
			func() templ.Component { return templates.Page(resp.Name+" Revenue", content()) },
		)
	}
}
