package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(body)
	return err
}

// buildExportData loads a project and lays out its estimate for export.
func buildExportData(app *pocketbase.PocketBase, calc *services.Calculator, e *core.RequestEvent) (services.ExportData, error) {
	rec, p, err := loadProject(app, e)
	if err != nil {
		return services.ExportData{}, err
	}
	return calc.Engine().BuildEstimateExport(p, calc.Summarize(p), createdDate(rec)), nil
}

// HandleEstimateExportExcel returns a handler that downloads a project's
// estimate as an Excel workbook.
func HandleEstimateExportExcel(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExportData(app, calc, e)
		if err != nil {
			return projectLoadError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateEstimateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Estimate_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())
		return writeAttachment(e, contentTypeXLSX, filename, xlsxBytes)
	}
}

// HandleEstimateExportPDF returns a handler that downloads a project's
// estimate as a PDF.
func HandleEstimateExportPDF(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExportData(app, calc, e)
		if err != nil {
			return projectLoadError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GenerateEstimatePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Estimate_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())
		return writeAttachment(e, contentTypePDF, filename, pdfBytes)
	}
}

// HandlePortfolioExportExcel downloads the revenue view, with the same
// filter query parameters as /revenue, as an Excel workbook.
func HandlePortfolioExportExcel(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		f, err := parseRevenueFilter(e.Request.URL.Query())
		if err != nil {
			return respondError(e, http.StatusBadRequest, err.Error())
		}

		rows, report, err := portfolio(app, calc, f)
		if err != nil {
			log.Printf("export_portfolio: could not query projects: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		xlsxBytes, err := services.GeneratePortfolioExcel(services.PortfolioExportData{
			Title:       "Project Portfolio",
			FilterLabel: f.Label(),
			Rows:        rows,
			Report:      report,
		})
		if err != nil {
			log.Printf("export_portfolio: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Portfolio_%s.xlsx", sanitizeFilename(f.Label()))
		return writeAttachment(e, contentTypeXLSX, filename, xlsxBytes)
	}
}
