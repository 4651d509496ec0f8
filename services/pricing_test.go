package services

import "testing"

func TestComputeCosts_ScenarioA(t *testing.T) {
	got := testEngine().ComputeCosts(paintProject())

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"MaterialCost", got.MaterialCost, 200},
		{"LaborCost", got.LaborCost, 300},
		{"Waste", got.Waste, 0},
		{"Subtotal", got.Subtotal, 500},
		{"TotalProjectValue", got.TotalProjectValue, 500},
	}
	for _, c := range checks {
		if !floatClose(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if len(got.MaterialBreakdown) != 1 || got.MaterialBreakdown[0].Total != 200 {
		t.Errorf("MaterialBreakdown = %+v, want one line of 200", got.MaterialBreakdown)
	}
	if len(got.LaborBreakdown) != 1 || got.LaborBreakdown[0].Units != 100 {
		t.Errorf("LaborBreakdown = %+v, want one line of 100 units", got.LaborBreakdown)
	}
}

func TestAggregateCosts_MultipleCategories(t *testing.T) {
	p := paintProject()
	p.Categories = append(p.Categories, Category{
		Key:  "trim",
		Name: "Trim",
		WorkItems: []WorkItem{
			{
				Name:            "Baseboards",
				MeasurementType: string(MeasurementLinearFoot),
				MaterialCost:    Num(1.5),
				LaborCost:       Num(2),
				Surfaces:        []Surface{{LinearFt: Num(40)}, {LinearFt: Num(20)}},
			},
			{
				Name:            "Outlets",
				MeasurementType: string(MeasurementByUnit),
				MaterialCost:    Num(4),
				LaborCost:       Num(10),
				Surfaces:        []Surface{{Units: Num(6)}},
			},
		},
	})

	got := testEngine().ComputeCosts(p)

	// 200 + 1.5*60 + 4*6
	if !floatClose(got.MaterialCost, 314) {
		t.Errorf("MaterialCost = %v, want 314", got.MaterialCost)
	}
	// 300 + 2*60 + 10*6
	if !floatClose(got.LaborCost, 480) {
		t.Errorf("LaborCost = %v, want 480", got.LaborCost)
	}
	if len(got.MaterialBreakdown) != 3 {
		t.Errorf("expected 3 material lines, got %d", len(got.MaterialBreakdown))
	}
	if !floatClose(BreakdownTotal(got.MaterialBreakdown), got.MaterialCost) {
		t.Errorf("breakdown total %v differs from MaterialCost %v",
			BreakdownTotal(got.MaterialBreakdown), got.MaterialCost)
	}
}

func TestAggregateCosts_BreakdownSkipsNonPositiveLines(t *testing.T) {
	p := paintProject()
	p.Categories[0].WorkItems = append(p.Categories[0].WorkItems,
		WorkItem{
			Name:         "Customer-supplied primer credit",
			MaterialCost: Num(-0.5),
			LaborCost:    Num(0),
			Surfaces:     []Surface{{Sqft: Num(100)}},
		},
	)

	got := testEngine().ComputeCosts(p)

	// The credit line counts toward the total but is not listed.
	if !floatClose(got.MaterialCost, 150) {
		t.Errorf("MaterialCost = %v, want 150", got.MaterialCost)
	}
	if len(got.MaterialBreakdown) != 1 {
		t.Errorf("expected 1 material line, got %d", len(got.MaterialBreakdown))
	}
	if len(got.LaborBreakdown) != 1 {
		t.Errorf("expected 1 labor line, got %d", len(got.LaborBreakdown))
	}
	if !hasCode(got.Errors, CodeBelowMin) {
		t.Errorf("expected a BELOW_MIN warning for the negative rate, got %v", got.Errors)
	}
	for _, e := range ErrorsByCode(got.Errors, CodeBelowMin) {
		if e.Severity != SeverityWarning {
			t.Errorf("negative rate severity = %s, want warning", e.Severity)
		}
	}
}

func TestComputeCosts_Idempotent(t *testing.T) {
	e := testEngine()
	p := paintProject()
	p.Settings = &Settings{
		TaxRate:           Num(0.0725),
		Markup:            Num(0.18),
		WasteFactor:       Num(0.13),
		TransportationFee: Num(45.5),
		LaborDiscount:     Num(0.05),
		MiscFees:          []MiscFee{{Name: "Permit", Amount: Num(75.25)}},
	}

	first := e.ComputeCosts(p)
	second := e.ComputeCosts(p)

	if first.TotalProjectValue != second.TotalProjectValue ||
		first.Subtotal != second.Subtotal ||
		first.Tax != second.Tax ||
		first.Markup != second.Markup {
		t.Errorf("repeated computation drifted: %+v vs %+v", first, second)
	}
}

func TestComputeCosts_DoesNotMutateInput(t *testing.T) {
	p := paintProject()
	p.Categories[0].WorkItems[0] = WorkItem{
		Name:         "Legacy item",
		MaterialCost: Num(1),
		LaborCost:    Num(1),
		Sqft:         Num(50),
	}
	before := p.FingerprintString()

	testEngine().ComputeCosts(p)

	if p.FingerprintString() != before {
		t.Error("ComputeCosts modified its input")
	}
	if len(p.Categories[0].WorkItems[0].Surfaces) != 0 {
		t.Error("legacy item gained surfaces on the caller's copy")
	}
}

func TestComputeCosts_Monotonic(t *testing.T) {
	e := testEngine()
	base := paintProject()
	base.Settings = &Settings{TaxRate: Num(0.08), Markup: Num(0.15), WasteFactor: Num(0.1)}
	baseline := e.ComputeCosts(base)

	mutations := []struct {
		name   string
		mutate func(p *Project)
	}{
		{"material rate", func(p *Project) { p.Categories[0].WorkItems[0].MaterialCost = Num(2.5) }},
		{"labor rate", func(p *Project) { p.Categories[0].WorkItems[0].LaborCost = Num(3.5) }},
		{"quantity", func(p *Project) { p.Categories[0].WorkItems[0].Surfaces[0].Sqft = Num(150) }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			p := paintProject()
			p.Settings = base.Settings
			m.mutate(&p)
			got := e.ComputeCosts(p)
			if got.MaterialCost < baseline.MaterialCost ||
				got.LaborCost < baseline.LaborCost ||
				got.Subtotal < baseline.Subtotal ||
				got.TotalProjectValue < baseline.TotalProjectValue {
				t.Errorf("increase decreased a total: %+v vs baseline %+v", got, baseline)
			}
		})
	}
}

func TestComputeCosts_MissingCategories(t *testing.T) {
	got := testEngine().ComputeCosts(Project{Settings: &Settings{TransportationFee: Num(100)}})

	if got.Subtotal != 0 || got.TotalProjectValue != 100 {
		t.Errorf("subtotal %v total %v, want 0 and the 100 fee", got.Subtotal, got.TotalProjectValue)
	}
	if !hasCode(got.Errors, CodeMissingCategories) {
		t.Errorf("expected MISSING_CATEGORIES, got %v", got.Errors)
	}
	if len(got.MaterialBreakdown) != 0 || len(got.LaborBreakdown) != 0 {
		t.Errorf("expected empty breakdowns, got %+v / %+v", got.MaterialBreakdown, got.LaborBreakdown)
	}
}

func TestComputeCosts_CategoriesWithoutItems(t *testing.T) {
	p := Project{
		Categories: []Category{{Key: "misc", Name: "Misc"}},
		Settings: &Settings{
			Markup:            Num(0.2),
			TransportationFee: Num(150),
			MiscFees:          []MiscFee{{Name: "Permit", Amount: Num(75)}},
		},
	}

	got := testEngine().ComputeCosts(p)

	if got.Transportation != 150 || got.MiscFeesTotal != 75 || got.TotalProjectValue != 225 {
		t.Errorf("transportation %v misc %v total %v, want 150/75/225",
			got.Transportation, got.MiscFeesTotal, got.TotalProjectValue)
	}
	if got.Subtotal != 0 || got.Markup != 0 {
		t.Errorf("subtotal %v markup %v, want 0", got.Subtotal, got.Markup)
	}
	if !hasCode(got.Errors, CodeNoWorkItems) {
		t.Errorf("expected NO_WORK_ITEMS, got %v", got.Errors)
	}
	if got.MaterialBreakdown == nil || got.LaborBreakdown == nil {
		t.Error("breakdowns should be empty slices, not nil")
	}
}

func TestComputeCosts_MissingSettings(t *testing.T) {
	p := paintProject()
	p.Settings = nil

	got := testEngine().ComputeCosts(p)

	if !floatClose(got.TotalProjectValue, 500) {
		t.Errorf("TotalProjectValue = %v, want 500", got.TotalProjectValue)
	}
	if !hasCode(got.Errors, CodeMissingSettings) {
		t.Errorf("expected MISSING_SETTINGS, got %v", got.Errors)
	}
}

func TestComputeCosts_OneBadItemDoesNotBlankEstimate(t *testing.T) {
	p := paintProject()
	var broken WorkItem
	if err := broken.MaterialCost.UnmarshalJSON([]byte(`"abc"`)); err != nil {
		t.Fatal(err)
	}
	broken.Name = "Broken"
	broken.LaborCost = Num(1)
	broken.Surfaces = []Surface{{Sqft: Num(10)}}
	p.Categories[0].WorkItems = append(p.Categories[0].WorkItems, broken)

	got := testEngine().ComputeCosts(p)

	// The broken item's material rate is 0; its labor still counts.
	if !floatClose(got.MaterialCost, 200) {
		t.Errorf("MaterialCost = %v, want 200", got.MaterialCost)
	}
	if !floatClose(got.LaborCost, 310) {
		t.Errorf("LaborCost = %v, want 310", got.LaborCost)
	}
	if !hasCode(got.Errors, CodeInvalidType) {
		t.Errorf("expected INVALID_TYPE, got %v", got.Errors)
	}
}

func TestCostSummary_Rounded(t *testing.T) {
	c := CostSummary{
		Tax:               41.600000000000001,
		TotalProjectValue: 639.6049,
		MaterialBreakdown: []BreakdownLine{{Total: 10.005}},
	}
	r := c.Rounded()

	if r.Tax != 41.6 || r.TotalProjectValue != 639.6 || r.MaterialBreakdown[0].Total != 10.01 {
		t.Errorf("Rounded() = %+v", r)
	}
	if c.MaterialBreakdown[0].Total != 10.005 {
		t.Error("Rounded() modified the receiver's breakdown")
	}
}
