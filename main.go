package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/commands"
	"estimator/config"
	"estimator/handlers"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	calc := cfg.NewCalculator()

	app := pocketbase.New()
	commands.Register(app, calc)

	// Create collections, seed data and bring stored projects up to date on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if n, err := collections.MigrateLegacyProjects(app); err != nil {
			log.Printf("Warning: legacy project migration failed: %v", err)
		} else if n > 0 {
			log.Printf("Upgraded %d legacy projects", n)
		}
		if n, err := collections.RefreshSnapshots(app, calc); err != nil {
			log.Printf("Warning: snapshot refresh failed: %v", err)
		} else if n > 0 {
			log.Printf("Refreshed totals of %d projects", n)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app, calc))
		se.Router.POST("/projects", handlers.HandleProjectSave(app, calc))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app, calc))
		se.Router.PUT("/projects/{id}", handlers.HandleProjectUpdate(app, calc))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app, calc))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app, calc))

		// ── Estimate and exports ─────────────────────────────────
		se.Router.GET("/projects/{id}/estimate", handlers.HandleEstimate(app, calc))
		se.Router.GET("/projects/{id}/estimate/export/excel", handlers.HandleEstimateExportExcel(app, calc))
		se.Router.GET("/projects/{id}/estimate/export/pdf", handlers.HandleEstimateExportPDF(app, calc))

		// ── Work item import ─────────────────────────────────────
		se.Router.POST("/projects/{id}/import", handlers.HandleWorkItemImport(app, calc))
		se.Router.GET("/import/template", handlers.HandleImportTemplate())
		se.Router.POST("/import/errors", handlers.HandleImportErrorReport())

		// ── Payments ─────────────────────────────────────────────
		se.Router.GET("/projects/{id}/payments", handlers.HandlePayments(app, calc))
		se.Router.POST("/projects/{id}/payments", handlers.HandlePaymentAdd(app, calc))

		// ── Revenue ──────────────────────────────────────────────
		se.Router.GET("/projects/{id}/revenue", handlers.HandleProjectRevenue(app, calc))
		se.Router.GET("/revenue", handlers.HandleRevenue(app, calc))
		se.Router.GET("/revenue/export/excel", handlers.HandlePortfolioExportExcel(app, calc))

		se.Router.GET("/options", handlers.HandleOptions())

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
