package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// PortfolioColumn defines a column in the portfolio spreadsheet.
type PortfolioColumn struct {
	Header string
	Width  float64
	value  func(r PortfolioRow) any
}

// PortfolioRow is one project line of the portfolio export.
type PortfolioRow struct {
	ProjectID string
	Name      string
	Customer  string
	Status    string
	Summary   ProjectSummary
}

// PortfolioExportData holds the projects and the revenue aggregate of one
// filtered portfolio view.
type PortfolioExportData struct {
	Title       string
	FilterLabel string
	Rows        []PortfolioRow
	Report      RevenueReport
}

var portfolioColumns = []PortfolioColumn{
	{Header: "Project", Width: 30, value: func(r PortfolioRow) any { return sanitizeExcelCell(r.Name) }},
	{Header: "Customer", Width: 25, value: func(r PortfolioRow) any { return sanitizeExcelCell(r.Customer) }},
	{Header: "Status", Width: 12, value: func(r PortfolioRow) any { return r.Status }},
	{Header: "Start Date", Width: 12, value: func(r PortfolioRow) any { return r.Summary.StartDate }},
	{Header: "Total", Width: 16, value: func(r PortfolioRow) any { return FormatCurrency(r.Summary.Costs.TotalProjectValue) }},
	{Header: "Paid", Width: 16, value: func(r PortfolioRow) any { return FormatCurrency(r.Summary.Payments.TotalPaid) }},
	{Header: "Balance", Width: 16, value: func(r PortfolioRow) any { return FormatCurrency(r.Summary.Payments.RemainingBalance) }},
	{Header: "Fully Paid", Width: 10, value: func(r PortfolioRow) any { return yesNo(r.Summary.Payments.IsFullyPaid) }},
	{Header: "Overdue", Width: 10, value: func(r PortfolioRow) any { return len(r.Summary.Payments.OverduePayments) }},
	{Header: "Recognized Revenue", Width: 20, value: func(r PortfolioRow) any { return FormatCurrency(r.Summary.Revenue.Total) }},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// GeneratePortfolioExcel creates a spreadsheet listing every project of a
// portfolio view with its totals, followed by the recognized revenue.
func GeneratePortfolioExcel(data PortfolioExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Portfolio"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, col := range portfolioColumns {
		letter := colName(i)
		f.SetColWidth(sheetName, letter, letter, col.Width)
	}
	lastCol := colName(len(portfolioColumns) - 1)

	// --- Row 1: Title ---
	title := data.Title
	if title == "" {
		title = "Project Portfolio"
	}
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	// --- Row 2: Filter and count ---
	subtitle := fmt.Sprintf("Total: %d projects", len(data.Rows))
	if data.FilterLabel != "" {
		subtitle = data.FilterLabel + " | " + subtitle
	}
	f.MergeCell(sheetName, "A2", lastCol+"2")
	f.SetCellValue(sheetName, "A2", subtitle)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// --- Row 4: Column headers ---
	for i, col := range portfolioColumns {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", colName(i)), col.Header)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})

	// --- Data rows starting at row 5 ---
	rowNum := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", rowNum)
		for colIdx, col := range portfolioColumns {
			f.SetCellValue(sheetName, colName(colIdx)+rowStr, col.value(r))
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, dataStyle)
		rowNum++
	}

	// --- Revenue totals ---
	rowNum++
	totals := []struct {
		label string
		value string
	}{
		{"Recognized markup", FormatCurrency(data.Report.Markup)},
		{"Recognized transportation", FormatCurrency(data.Report.Transportation)},
		{"Additional revenue", FormatCurrency(data.Report.Total)},
		{"Fully paid projects", fmt.Sprintf("%d of %d", data.Report.ProjectCount, data.Report.Considered)},
	}
	labelCol := colName(len(portfolioColumns) - 2)
	for _, t := range totals {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, labelCol+rowStr, t.label+":")
		f.SetCellValue(sheetName, lastCol+rowStr, t.value)
		f.SetCellStyle(sheetName, labelCol+rowStr, lastCol+rowStr, totalStyle)
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// colName converts a 0-based column index to an Excel column letter (A, B, ..., Z, AA, ...).
func colName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
