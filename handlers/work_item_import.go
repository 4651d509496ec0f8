package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"estimator/collections"
	"estimator/services"
)

const maxImportSize = 10 << 20

type importResponse struct {
	*services.ImportResult
	Committed bool `json:"committed"`
}

// mergeCategories appends imported work items to the category with the same
// key, adding categories the project does not have yet.
func mergeCategories(existing, imported []services.Category) []services.Category {
	out := slices.Clone(existing)
	index := make(map[string]int, len(out))
	for i, c := range out {
		index[c.Key] = i
	}
	for _, c := range imported {
		if i, ok := index[c.Key]; ok {
			out[i].WorkItems = append(slices.Clone(out[i].WorkItems), c.WorkItems...)
			continue
		}
		index[c.Key] = len(out)
		out = append(out, c)
	}
	return out
}

// HandleWorkItemImport validates an uploaded .csv or .xlsx file of work
// items. With commit=true and no row errors, the items are merged into the
// project and its snapshots recomputed.
// Route: POST /projects/{id}/import
func HandleWorkItemImport(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "work_item_import", err)
		}

		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return respondError(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return respondError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := calc.Engine().Validator().ImportWorkItems(file, header.Filename)
		if err != nil {
			log.Printf("work_item_import: %v", err)
			return respondError(e, http.StatusBadRequest, err.Error())
		}

		resp := importResponse{ImportResult: result}
		if !cast.ToBool(e.Request.FormValue("commit")) {
			return e.JSON(http.StatusOK, resp)
		}
		if result.ErrorRows > 0 {
			return e.JSON(http.StatusUnprocessableEntity, resp)
		}

		old := p
		p.Categories = mergeCategories(p.Categories, result.Categories)
		if err := collections.SaveProject(app, rec, p, calc.Engine()); err != nil {
			log.Printf("work_item_import: could not save project %s: %v", rec.Id, err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		calc.Invalidate(old)
		resp.Committed = true

		SetToast(e, "success", fmt.Sprintf("%d work item rows imported", result.ValidRows))
		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/projects/"+rec.Id+"/estimate")
			return e.NoContent(http.StatusOK)
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleImportTemplate downloads the work item import template.
// Route: GET /import/template
func HandleImportTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateImportTemplate()
		if err != nil {
			log.Printf("import_template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		return writeAttachment(e, contentTypeXLSX, "Work_Item_Import_Template.xlsx", xlsxBytes)
	}
}

// HandleImportErrorReport turns posted import errors into a downloadable
// workbook.
// Route: POST /import/errors
func HandleImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var importErrors []services.ImportError
		if err := json.NewDecoder(e.Request.Body).Decode(&importErrors); err != nil {
			return respondError(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(importErrors)
		if err != nil {
			log.Printf("error_report: %v", err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeAttachment(e, contentTypeXLSX, filename, xlsxBytes)
	}
}
