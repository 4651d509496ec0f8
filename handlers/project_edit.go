package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

// HandleProjectUpdate replaces a project's content. An empty name or status
// keeps the stored one. Snapshots are recomputed on every save.
func HandleProjectUpdate(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, old, err := loadProject(app, e)
		if err != nil && rec == nil {
			return projectLoadError(e, "project_edit", err)
		}
		if err != nil {
			// Unreadable stored data is replaced wholesale.
			log.Printf("project_edit: replacing unreadable data of %s: %v", rec.Id, err)
		}

		var pl projectPayload
		if err := e.BindBody(&pl); err != nil {
			return respondError(e, http.StatusBadRequest, "Invalid project data")
		}
		if pl.Name == "" {
			pl.Name = rec.GetString("name")
		}
		if v := checkPayload(app, calc, &pl, rec.Id); v != nil {
			return rejectPayload(e, v)
		}

		rec.Set("name", pl.Name)
		if pl.Status != "" {
			rec.Set("status", pl.Status)
		}

		p := pl.project()
		p.ID = rec.Id
		if err := collections.SaveProject(app, rec, p, calc.Engine()); err != nil {
			log.Printf("project_edit: could not save project %s: %v", rec.Id, err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		calc.Invalidate(old)

		SetToast(e, "success", "Project saved")

		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/projects/"+rec.Id+"/estimate")
			return e.String(http.StatusOK, "")
		}
		return e.JSON(http.StatusOK, newProjectResponse(rec, p, calc.Summarize(p)))
	}
}
