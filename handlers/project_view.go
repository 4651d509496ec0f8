package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

var errProjectNotFound = errors.New("project not found")

// loadProject fetches the project named by the {id} path value.
func loadProject(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, services.Project, error) {
	projectID := e.Request.PathValue("id")
	if projectID == "" {
		return nil, services.Project{}, errProjectNotFound
	}
	rec, err := app.FindRecordById(collections.ProjectsCollection, projectID)
	if err != nil {
		return nil, services.Project{}, errProjectNotFound
	}
	p, err := collections.ProjectFromRecord(rec)
	if err != nil {
		return rec, services.Project{}, err
	}
	return rec, p, nil
}

// projectLoadError maps a loadProject failure to a response.
func projectLoadError(e *core.RequestEvent, area string, err error) error {
	if errors.Is(err, errProjectNotFound) {
		return respondError(e, http.StatusNotFound, "Project not found")
	}
	log.Printf("%s: could not decode project %s: %v", area, e.Request.PathValue("id"), err)
	return respondError(e, http.StatusInternalServerError, "Stored project data is unreadable")
}

// roundedSummary is the presentation copy of s.
func roundedSummary(s services.ProjectSummary) services.ProjectSummary {
	s.Costs = s.Costs.Rounded()
	s.Payments = s.Payments.Rounded()
	s.Revenue = s.Revenue.Rounded()
	return s
}

type projectResponse struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Status  string                  `json:"status"`
	Created string                  `json:"created"`
	Updated string                  `json:"updated"`
	Project services.Project        `json:"project"`
	Summary services.ProjectSummary `json:"summary"`
}

func newProjectResponse(rec *core.Record, p services.Project, s services.ProjectSummary) projectResponse {
	p.Totals, p.PaymentDetails = nil, nil
	return projectResponse{
		ID:      rec.Id,
		Name:    rec.GetString("name"),
		Status:  rec.GetString("status"),
		Created: rec.GetDateTime("created").String(),
		Updated: rec.GetDateTime("updated").String(),
		Project: p,
		Summary: roundedSummary(s),
	}
}

// HandleProjectView returns one project with its computed summary as JSON.
func HandleProjectView(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "project_view", err)
		}
		return e.JSON(http.StatusOK, newProjectResponse(rec, p, calc.Summarize(p)))
	}
}
