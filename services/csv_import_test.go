package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Category,Item,Quantity\nInterior,Paint,100\nTrim,Baseboard,40\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Category,Item\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestMapHeadersToFields(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		mapped, unrecognized := mapHeadersToFields([]string{"Category", "Item", "Material Rate"})
		if len(unrecognized) != 0 {
			t.Errorf("expected no unrecognized, got %v", unrecognized)
		}
		if mapped[0] != "category" || mapped[1] != "item" || mapped[2] != "material_rate" {
			t.Errorf("unexpected mapping: %v", mapped)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		mapped, _ := mapHeadersToFields([]string{"CATEGORY", "labor rate"})
		if mapped[0] != "category" || mapped[1] != "labor_rate" {
			t.Errorf("unexpected mapping: %v", mapped)
		}
	})

	t.Run("with required asterisk", func(t *testing.T) {
		mapped, _ := mapHeadersToFields([]string{"Category *", "Item *"})
		if mapped[0] != "category" || mapped[1] != "item" {
			t.Errorf("unexpected mapping: %v", mapped)
		}
	})

	t.Run("unrecognized", func(t *testing.T) {
		mapped, unrecognized := mapHeadersToFields([]string{"Category", "Colour"})
		if mapped[1] != "" {
			t.Errorf("expected empty key for unknown column, got %q", mapped[1])
		}
		if len(unrecognized) != 1 || unrecognized[0] != "Colour" {
			t.Errorf("unrecognized = %v", unrecognized)
		}
	})
}

func TestImportWorkItems_CSV(t *testing.T) {
	input := strings.Join([]string{
		"Category,Item,Measurement Type,Surface,Quantity,Width,Height,Material Rate,Labor Rate",
		"Interior,Paint walls,single-surface,North wall,100,,,2,3",
		"Interior,Paint walls,single-surface,South wall,,10,8,2,3",
		"Trim,Baseboards,linear-foot,,40,,,$1.50,2",
		"Trim,Outlets,by-unit,,6,,,4,10",
		",,,,,,,,",
	}, "\n")

	v := NewValidator(DefaultEngineConfig())
	res, err := v.ImportWorkItems(strings.NewReader(input), "items.csv")
	if err != nil {
		t.Fatalf("ImportWorkItems() error = %v", err)
	}

	if res.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4 (blank row skipped)", res.TotalRows)
	}
	if len(res.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", res.Categories)
	}
	interior := res.Categories[0]
	if interior.Key != "interior" || len(interior.WorkItems) != 1 || len(interior.WorkItems[0].Surfaces) != 2 {
		t.Errorf("interior = %+v", interior)
	}
	if res.Categories[1].WorkItems[0].Surfaces[0].LinearFt.Float() != 40 {
		t.Errorf("baseboards surface = %+v", res.Categories[1].WorkItems[0].Surfaces[0])
	}

	if res.ErrorRows != 0 {
		t.Errorf("unexpected errors: %+v", res.Errors)
	}

	e := testEngine()
	costs := e.ComputeCosts(Project{Categories: res.Categories, Settings: &Settings{}})
	// 2*(100+80) + 1.5*40 + 4*6
	if !floatClose(costs.MaterialCost, 444) {
		t.Errorf("MaterialCost = %v, want 444", costs.MaterialCost)
	}
}

func TestImportWorkItems_RowErrors(t *testing.T) {
	input := strings.Join([]string{
		"Category,Item,Measurement Type,Quantity,Material Rate,Labor Rate",
		",Missing category,,10,1,1",
		"Interior,Bad type,cubic-yards,10,1,1",
		"Interior,Bad number,,ten,1,1",
		"Interior,Fractional units,by-unit,2.5,1,1",
		"Interior,Good,,10,1,1",
	}, "\n")

	res, err := NewValidator(DefaultEngineConfig()).ImportWorkItems(strings.NewReader(input), "items.CSV")
	if err != nil {
		t.Fatalf("ImportWorkItems() error = %v", err)
	}

	if res.ErrorRows != 4 || res.ValidRows != 1 {
		t.Errorf("ErrorRows = %d ValidRows = %d, want 4 and 1; errors %+v", res.ErrorRows, res.ValidRows, res.Errors)
	}
	rows := map[int]bool{}
	for _, e := range res.Errors {
		rows[e.Row] = true
	}
	for _, want := range []int{2, 3, 4, 5} {
		if !rows[want] {
			t.Errorf("expected an error on row %d, got %+v", want, res.Errors)
		}
	}
}

func TestImportWorkItems_UnsupportedFormat(t *testing.T) {
	_, err := NewValidator(DefaultEngineConfig()).ImportWorkItems(strings.NewReader("x"), "items.txt")
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestImportWorkItems_TemplateRoundTrip(t *testing.T) {
	tmpl, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate() error = %v", err)
	}

	res, err := NewValidator(DefaultEngineConfig()).ImportWorkItems(bytesReader(tmpl), "template.xlsx")
	if err != nil {
		t.Fatalf("ImportWorkItems() error = %v", err)
	}
	if res.ValidRows != 1 || len(res.Categories) != 1 {
		t.Errorf("example row did not import: %+v", res)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ImportError{
		{Row: 2, Field: "Category", Message: "Category is required"},
		{Row: 5, Field: "Quantity", Message: "Quantity is not a number"},
	}

	data, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("failed to open error report: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue("Errors", "C1")
	if header != "Error" {
		t.Errorf("C1 = %q, want 'Error'", header)
	}
	row3, _ := f.GetCellValue("Errors", "A3")
	if row3 != "5" {
		t.Errorf("A3 = %q, want '5'", row3)
	}
}
