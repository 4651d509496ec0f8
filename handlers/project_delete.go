package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

func HandleProjectDelete(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return respondError(e, http.StatusBadRequest, "Missing project ID")
		}

		projectRecord, err := app.FindRecordById(collections.ProjectsCollection, projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return respondError(e, http.StatusNotFound, "Project not found")
		}

		if p, err := collections.ProjectFromRecord(projectRecord); err == nil {
			calc.Invalidate(p)
		}

		if err := app.Delete(projectRecord); err != nil {
			log.Printf("project_delete: failed to delete project %s: %v", projectID, err)
			return respondError(e, http.StatusInternalServerError, "Failed to delete project")
		}

		log.Printf("project_delete: deleted project %s (%s)\n", projectID, projectRecord.GetString("name"))

		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/projects")
			return e.String(http.StatusOK, "")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
