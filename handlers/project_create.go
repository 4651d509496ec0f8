package handlers

import (
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

// projectPayload is the request body of project create and update.
// Snapshots are never accepted from clients.
type projectPayload struct {
	Name         string                `json:"name"`
	Status       string                `json:"status"`
	CustomerInfo services.CustomerInfo `json:"customerInfo"`
	Categories   []services.Category   `json:"categories"`
	Settings     *services.Settings    `json:"settings"`
}

func (pl projectPayload) project() services.Project {
	return services.Project{
		CustomerInfo: pl.CustomerInfo,
		Categories:   pl.Categories,
		Settings:     pl.Settings,
	}
}

type validationResponse struct {
	Message string               `json:"message"`
	Fields  map[string]string    `json:"fields,omitempty"`
	Errors  []services.CalcError `json:"errors,omitempty"`
}

// checkPayload validates the record-level fields and the project content.
// excludeID skips the record itself in the name uniqueness check.
func checkPayload(app *pocketbase.PocketBase, calc *services.Calculator, pl *projectPayload, excludeID string) *validationResponse {
	pl.Name = strings.TrimSpace(pl.Name)
	pl.Status = strings.TrimSpace(pl.Status)

	fields := make(map[string]string)
	if pl.Name == "" {
		fields["name"] = "Project name is required"
	}
	if pl.Status != "" && !slices.Contains(services.ProjectStatusOptions, pl.Status) {
		fields["status"] = "Unknown project status"
	}

	if pl.Name != "" {
		existing, _ := app.FindRecordsByFilter(
			collections.ProjectsCollection,
			"name = {:name} && id != {:id}",
			"", 1, 0,
			map[string]any{"name": pl.Name, "id": excludeID},
		)
		if len(existing) > 0 {
			fields["name"] = "A project with this name already exists"
		}
	}

	res := calc.Engine().Validator().ValidateProject(pl.project())
	var blocking []services.CalcError
	for _, err := range res.Errors {
		if err.Severity == services.SeverityError {
			blocking = append(blocking, err)
		}
	}

	if len(fields) == 0 && len(blocking) == 0 {
		return nil
	}
	return &validationResponse{
		Message: "Please fix the errors below",
		Fields:  fields,
		Errors:  blocking,
	}
}

func rejectPayload(e *core.RequestEvent, v *validationResponse) error {
	if isHTMX(e) {
		return ErrorToast(e, http.StatusBadRequest, v.Message)
	}
	return e.JSON(http.StatusBadRequest, v)
}

// HandleProjectSave creates a project from a JSON body and stores its
// computed snapshots.
func HandleProjectSave(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var pl projectPayload
		if err := e.BindBody(&pl); err != nil {
			return respondError(e, http.StatusBadRequest, "Invalid project data")
		}
		if v := checkPayload(app, calc, &pl, ""); v != nil {
			return rejectPayload(e, v)
		}
		if pl.Status == "" {
			pl.Status = "estimate"
		}

		projectsCol, err := app.FindCollectionByNameOrId(collections.ProjectsCollection)
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(projectsCol)
		record.Set("name", pl.Name)
		record.Set("status", pl.Status)

		p := pl.project()
		if err := collections.SaveProject(app, record, p, calc.Engine()); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		p.ID = record.Id

		SetToast(e, "success", "Project created successfully")

		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/projects/"+record.Id+"/estimate")
			return e.String(http.StatusOK, "")
		}
		return e.JSON(http.StatusCreated, newProjectResponse(record, p, calc.Summarize(p)))
	}
}
