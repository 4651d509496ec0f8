package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ImportField is one column of the work item import template.
type ImportField struct {
	Key      string
	Label    string
	Required bool
	Example  string
}

// ImportFields is the ordered column set of the work item import template.
var ImportFields = []ImportField{
	{Key: "category", Label: "Category", Required: true, Example: "Interior"},
	{Key: "item", Label: "Item", Required: true, Example: "Paint walls"},
	{Key: "measurement_type", Label: "Measurement Type", Example: "single-surface"},
	{Key: "surface", Label: "Surface", Example: "North wall"},
	{Key: "quantity", Label: "Quantity", Example: "120"},
	{Key: "width", Label: "Width", Example: ""},
	{Key: "height", Label: "Height", Example: ""},
	{Key: "material_rate", Label: "Material Rate", Example: "2.50"},
	{Key: "labor_rate", Label: "Labor Rate", Example: "3.25"},
}

// ImportError is a single field-level problem on one row of an import file.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded work item file.
type ImportResult struct {
	TotalRows  int           `json:"total_rows"`
	ValidRows  int           `json:"valid_rows"`
	ErrorRows  int           `json:"error_rows"`
	Errors     []ImportError `json:"errors"`
	Categories []Category    `json:"categories"`
	FileName   string        `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to ImportField keys.
// Returns one key per column ("" when unrecognized) and the unrecognized headers.
func mapHeadersToFields(headers []string) ([]string, []string) {
	labelToKey := make(map[string]string, len(ImportFields)*2)
	for _, f := range ImportFields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// The template marks required columns with a trailing " *".
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ImportWorkItems parses an uploaded .csv or .xlsx file into categories of
// work items. Rows with errors are reported and left out of the result; one
// surface is created per row, and consecutive rows naming the same category
// and item become surfaces of a single item.
func (v *Validator) ImportWorkItems(file io.Reader, fileName string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers)
	result := &ImportResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		Categories: []Category{},
	}

	catIndex := map[string]int{}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			data[key] = strings.TrimSpace(row[colIdx])
		}
		if isBlankRow(data) {
			result.TotalRows--
			continue
		}

		item, surface, rowErrs := v.importRow(rowNum, data)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			result.ErrorRows++
			continue
		}
		result.ValidRows++

		ci, ok := catIndex[data["category"]]
		if !ok {
			ci = len(result.Categories)
			catIndex[data["category"]] = ci
			result.Categories = append(result.Categories, Category{
				Key:  categoryKey(data["category"]),
				Name: data["category"],
			})
		}
		cat := &result.Categories[ci]
		if n := len(cat.WorkItems); n > 0 && cat.WorkItems[n-1].Name == item.Name &&
			cat.WorkItems[n-1].MeasurementType == item.MeasurementType {
			cat.WorkItems[n-1].Surfaces = append(cat.WorkItems[n-1].Surfaces, surface)
			continue
		}
		item.Surfaces = []Surface{surface}
		cat.WorkItems = append(cat.WorkItems, item)
	}
	return result, nil
}

func isBlankRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

// categoryKey derives a stable key from a category name, e.g. "Interior Paint"
// becomes "interior-paint".
func categoryKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// importRow converts one row into a work item and its surface, checking it
// against the same schemas the engine uses.
func (v *Validator) importRow(rowNum int, data map[string]string) (WorkItem, Surface, []ImportError) {
	var errs []ImportError
	for _, f := range ImportFields {
		if f.Required && data[f.Key] == "" {
			errs = append(errs, ImportError{Row: rowNum, Field: f.Label, Message: f.Label + " is required"})
		}
	}

	kind := MeasurementSingleSurface
	if raw := data["measurement_type"]; raw != "" {
		k, ok := ParseMeasurementKind(raw)
		if !ok {
			errs = append(errs, ImportError{Row: rowNum, Field: "Measurement Type",
				Message: fmt.Sprintf("unknown measurement type %q", raw)})
		} else {
			kind = k
		}
	}

	numbers := map[string]Number{}
	for _, key := range []string{"quantity", "width", "height", "material_rate", "labor_rate"} {
		raw := data[key]
		if raw == "" {
			continue
		}
		f, err := cast.ToFloat64E(strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", ""))
		if err != nil {
			errs = append(errs, ImportError{Row: rowNum, Field: importLabel(key), Message: importLabel(key) + " is not a number"})
			continue
		}
		numbers[key] = Num(f)
	}

	item := WorkItem{
		Name:            data["item"],
		MeasurementType: string(kind),
		MaterialCost:    numbers["material_rate"],
		LaborCost:       numbers["labor_rate"],
	}
	surface := Surface{Name: data["surface"]}
	switch kind {
	case MeasurementLinearFoot:
		surface.LinearFt = numbers["quantity"]
	case MeasurementByUnit:
		surface.Units = numbers["quantity"]
	default:
		surface.Sqft = numbers["quantity"]
		surface.Width = numbers["width"]
		surface.Height = numbers["height"]
	}

	checks := v.ValidateWorkItem(item).Errors
	checks = append(checks, v.ValidateSurface(surface).Errors...)
	for _, ce := range checks {
		if ce.Severity != SeverityError {
			continue
		}
		field, _ := ce.Details["field"].(string)
		errs = append(errs, ImportError{Row: rowNum, Field: field, Message: ce.Message})
	}
	return item, surface, errs
}

func importLabel(key string) string {
	for _, f := range ImportFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

// GenerateImportTemplate creates the downloadable .xlsx template for work
// item imports, with one example row.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Work Items"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, field := range ImportFields {
		col, _ := excelize.ColumnNumberToName(i + 1)
		label := field.Label
		if field.Required {
			label += " *"
		}
		f.SetCellValue(sheet, col+"1", label)
		f.SetCellValue(sheet, col+"2", field.Example)
		f.SetColWidth(sheet, col, col, 18)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ImportFields))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
