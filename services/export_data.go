package services

import "fmt"

// ExportRow is one row of the estimate table: a category heading or a work item.
type ExportRow struct {
	Level        int    // 0 = category, 1 = work item
	Index        string // "1", "1.1" etc
	Description  string
	Units        float64
	UnitLabel    string
	MaterialRate float64
	MaterialCost float64
	LaborRate    float64
	LaborCost    float64
}

// LineTotal is material plus labor for the row.
func (r ExportRow) LineTotal() float64 {
	return r.MaterialCost + r.LaborCost
}

// SummaryLine is a labelled money figure shown under the table.
type SummaryLine struct {
	Label  string
	Amount float64
	// Emphasis marks the grand total and balance lines.
	Emphasis bool
}

// ExportData holds everything the Excel and PDF estimate exports need.
type ExportData struct {
	Title           string
	CustomerName    string
	ReferenceNumber string
	CreatedDate     string
	Rows            []ExportRow
	Summary         []SummaryLine
	TotalInWords    string
	IsFullyPaid     bool
}

func unitLabel(k MeasurementKind) string {
	switch k {
	case MeasurementLinearFoot:
		return "LF"
	case MeasurementByUnit:
		return "EA"
	}
	return "SF"
}

// BuildEstimateExport assembles export data for p. The table rows come from
// the normalized work items; the summary figures come from s so the export
// always matches what the estimate screen shows.
func (e *Engine) BuildEstimateExport(p Project, s ProjectSummary, createdDate string) ExportData {
	title := p.CustomerInfo.Name
	if title == "" {
		title = "Estimate"
	} else {
		title = "Estimate - " + title
	}
	data := ExportData{
		Title:           title,
		CustomerName:    p.CustomerInfo.Name,
		ReferenceNumber: p.ID,
		CreatedDate:     createdDate,
		Rows:            []ExportRow{},
		TotalInWords:    AmountToWords(s.Costs.TotalProjectValue),
		IsFullyPaid:     s.Payments.IsFullyPaid,
	}

	np, _ := NormalizeProject(p)
	catIndex := 0
	itemIndex := 0
	lastKey := ""
	for i, item := range np.Items {
		key := fmt.Sprintf("%s\x00%s", item.CategoryKey, item.CategoryName)
		if i == 0 || key != lastKey {
			catIndex++
			itemIndex = 0
			lastKey = key
			data.Rows = append(data.Rows, ExportRow{
				Level:       0,
				Index:       fmt.Sprintf("%d", catIndex),
				Description: item.CategoryName,
			})
		}
		itemIndex++
		units := e.ResolveItemUnits(item).Units
		data.Rows = append(data.Rows, ExportRow{
			Level:        1,
			Index:        fmt.Sprintf("%d.%d", catIndex, itemIndex),
			Description:  item.Name,
			Units:        units,
			UnitLabel:    unitLabel(item.Kind),
			MaterialRate: item.MaterialRate,
			MaterialCost: item.MaterialRate * units,
			LaborRate:    item.LaborRate,
			LaborCost:    item.LaborRate * units,
		})
	}

	c := s.Costs
	data.Summary = append(data.Summary,
		SummaryLine{Label: "Materials", Amount: c.MaterialCost},
		SummaryLine{Label: "Waste", Amount: c.Waste},
		SummaryLine{Label: "Labor", Amount: c.LaborCostBeforeDiscount},
	)
	if c.LaborDiscountAmount != 0 {
		data.Summary = append(data.Summary, SummaryLine{Label: "Labor discount", Amount: -c.LaborDiscountAmount})
	}
	data.Summary = append(data.Summary,
		SummaryLine{Label: "Subtotal", Amount: c.Subtotal},
		SummaryLine{Label: "Tax", Amount: c.Tax},
		SummaryLine{Label: "Markup", Amount: c.Markup},
		SummaryLine{Label: "Transportation", Amount: c.Transportation},
	)
	if c.MiscFeesTotal != 0 {
		data.Summary = append(data.Summary, SummaryLine{Label: "Misc fees", Amount: c.MiscFeesTotal})
	}
	data.Summary = append(data.Summary,
		SummaryLine{Label: "Total", Amount: c.TotalProjectValue, Emphasis: true},
		SummaryLine{Label: "Paid to date", Amount: s.Payments.TotalPaid},
		SummaryLine{Label: "Balance due", Amount: s.Payments.RemainingBalance, Emphasis: true},
	)
	return data
}
