package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type seedDef struct {
	name    string
	status  string
	project services.Project
	// settleBalance adds a paid Final payment covering whatever the other
	// payments leave open.
	settleBalance bool
}

func paid(b bool) *bool { return &b }

func seedProjects() []seedDef {
	return []seedDef{
		{
			name:   "Henderson Interior Repaint",
			status: "completed",
			project: services.Project{
				CustomerInfo: services.CustomerInfo{
					Name:      "Mark Henderson",
					Email:     "mark.henderson@example.com",
					Phone:     "(512) 555-0142",
					Address:   "418 Barton Hills Dr, Austin, TX",
					StartDate: "2025-02-10",
				},
				Categories: []services.Category{
					{
						Key:  "interior-paint",
						Name: "Interior Paint",
						WorkItems: []services.WorkItem{
							{
								Name:            "Walls - two coats",
								MeasurementType: string(services.MeasurementSingleSurface),
								MaterialCost:    services.Num(0.85),
								LaborCost:       services.Num(1.75),
								Surfaces: []services.Surface{
									{Name: "Living room", Width: services.Num(18), Height: services.Num(9)},
									{Name: "Primary bedroom", Sqft: services.Num(420)},
									{Name: "Hallway", Sqft: services.Num(160)},
								},
							},
							{
								Name:            "Baseboards",
								MeasurementType: string(services.MeasurementLinearFoot),
								MaterialCost:    services.Num(0.4),
								LaborCost:       services.Num(1.1),
								Surfaces:        []services.Surface{{Name: "Whole house", LinearFt: services.Num(310)}},
							},
						},
					},
					{
						Key:  "doors",
						Name: "Doors",
						WorkItems: []services.WorkItem{
							{
								Name:            "Interior doors",
								MeasurementType: string(services.MeasurementByUnit),
								MaterialCost:    services.Num(18),
								LaborCost:       services.Num(65),
								Surfaces:        []services.Surface{{Name: "Doors", Units: services.Num(9)}},
							},
						},
					},
				},
				Settings: &services.Settings{
					TaxRate:           services.Num(0.0825),
					Markup:            services.Num(0.2),
					WasteFactor:       services.Num(0.1),
					TransportationFee: services.Num(150),
					Payments: []services.Payment{
						{ID: "PAY-2025-001", Amount: services.Num(1500), Date: "2025-02-01", Method: "Check", Type: "Deposit", IsPaid: paid(true)},
					},
				},
			},
			settleBalance: true,
		},
		{
			name:   "Oak Street Deck",
			status: "active",
			project: services.Project{
				CustomerInfo: services.CustomerInfo{
					Name:      "Priya Natarajan",
					Email:     "priya.n@example.com",
					StartDate: "2025-06-02",
				},
				Categories: []services.Category{
					{
						Key:  "decking",
						Name: "Decking",
						WorkItems: []services.WorkItem{
							{
								Name:            "Composite deck boards",
								MeasurementType: string(services.MeasurementSingleSurface),
								MaterialCost:    services.Num(7.5),
								LaborCost:       services.Num(6),
								Surfaces:        []services.Surface{{Name: "Main deck", Width: services.Num(16), Height: services.Num(20)}},
							},
							{
								Name:            "Railing",
								MeasurementType: string(services.MeasurementLinearFoot),
								MaterialCost:    services.Num(32),
								LaborCost:       services.Num(18),
								Surfaces:        []services.Surface{{Name: "Perimeter", LinearFt: services.Num(52)}},
							},
							{
								Name:            "Footings",
								MeasurementType: string(services.MeasurementByUnit),
								MaterialCost:    services.Num(45),
								LaborCost:       services.Num(80),
								Surfaces:        []services.Surface{{Name: "Posts", Units: services.Num(12)}},
							},
						},
					},
				},
				Settings: &services.Settings{
					TaxRate:           services.Num(0.0825),
					Markup:            services.Num(0.15),
					TransportationFee: services.Num(250),
					WasteEntries: []services.WasteEntry{
						{SurfaceName: "Main deck", SurfaceCost: services.Num(2400), WasteFactor: services.Num(0.12)},
						{SurfaceName: "Perimeter", SurfaceCost: services.Num(1664), WasteFactor: services.Num(0.05)},
					},
					MiscFees: []services.MiscFee{{Name: "Permit", Amount: services.Num(325)}},
					Payments: []services.Payment{
						{ID: "PAY-2025-002", Amount: services.Num(4000), Date: "2025-05-20", Method: "Bank Transfer", Type: "Deposit", IsPaid: paid(true)},
						{ID: "PAY-2025-003", Amount: services.Num(6000), Date: "2025-07-15", Method: "Check", Type: "Progress", IsPaid: paid(false)},
					},
				},
			},
		},
		{
			name:   "Maple Avenue Kitchen Cabinets",
			status: "estimate",
			project: services.Project{
				CustomerInfo: services.CustomerInfo{
					Name:  "Dana Whitfield",
					Phone: "512-555-0199",
				},
				Categories: []services.Category{
					{
						Key:  "cabinets",
						Name: "Cabinet Refinishing",
						WorkItems: []services.WorkItem{
							{
								Name:            "Cabinet doors",
								MeasurementType: string(services.MeasurementByUnit),
								MaterialCost:    services.Num(22),
								LaborCost:       services.Num(55),
								Surfaces:        []services.Surface{{Name: "Uppers", Units: services.Num(14)}, {Name: "Lowers", Units: services.Num(12)}},
							},
							{
								Name:            "Cabinet boxes",
								MeasurementType: string(services.MeasurementLinearFoot),
								MaterialCost:    services.Num(9),
								LaborCost:       services.Num(21),
								Surfaces:        []services.Surface{{Name: "Run", LinearFt: services.Num(28)}},
							},
						},
					},
				},
				Settings: &services.Settings{
					TaxRate:       services.Num(0.0825),
					Markup:        services.Num(0.25),
					WasteFactor:   services.Num(0.05),
					LaborDiscount: services.Num(0.1),
					MiscFees:      []services.MiscFee{{Name: "Hardware disposal", Amount: services.Num(75)}},
				},
			},
		},
	}
}

// Seed populates the projects collection with demo estimates covering every
// measurement type, a fully paid job, an open job with an overdue payment
// and an unpaid estimate. It is safe to call on every startup because it
// returns early if any project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId(ProjectsCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	engine := services.NewEngine(services.DefaultEngineConfig())
	for _, d := range seedProjects() {
		p := d.project
		if d.settleBalance {
			settle(engine, &p)
		}

		rec := core.NewRecord(projectsCol)
		rec.Set("name", d.name)
		rec.Set("status", d.status)
		if err := SaveProject(app, rec, p, engine); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Printf("seed: created project %q (%s)\n", d.name, rec.Id)
	}

	log.Println("seed: done.")
	return nil
}

// settle appends a paid Final payment for the open balance of p.
func settle(engine *services.Engine, p *services.Project) {
	remaining := services.RoundCurrency(engine.ComputePayments(*p).RemainingBalance)
	if remaining <= 0 {
		return
	}
	s := *p.Settings
	s.Payments = append(append([]services.Payment(nil), s.Payments...), services.Payment{
		ID:     services.NextPaymentNumber(s.Payments, engine.Config().Now()),
		Amount: services.Num(remaining),
		Date:   p.CustomerInfo.StartDate,
		Method: "Check",
		Type:   "Final",
		IsPaid: paid(true),
	})
	p.Settings = &s
}
