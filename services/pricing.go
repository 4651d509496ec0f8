package services

// BreakdownLine is one display row of the material or labor breakdown.
type BreakdownLine struct {
	CategoryKey string  `json:"categoryKey"`
	Category    string  `json:"category"`
	Item        string  `json:"item"`
	Units       float64 `json:"units"`
	Rate        float64 `json:"rate"`
	Total       float64 `json:"total"`
}

// CostTotals is the output of cost aggregation.
type CostTotals struct {
	MaterialCost      float64         `json:"materialCost"`
	LaborCost         float64         `json:"laborCost"`
	MaterialBreakdown []BreakdownLine `json:"materialBreakdown"`
	LaborBreakdown    []BreakdownLine `json:"laborBreakdown"`
	Errors            []CalcError     `json:"errors,omitempty"`
}

// AggregateCosts sums material and labor cost over items. The totals include
// every line whatever its sign; the breakdowns only list lines with a
// strictly positive total.
func (e *Engine) AggregateCosts(items []NormalizedItem) CostTotals {
	out := CostTotals{
		MaterialBreakdown: []BreakdownLine{},
		LaborBreakdown:    []BreakdownLine{},
	}
	for _, item := range items {
		var errs []CalcError
		errs = append(errs, e.validator.Validate(EntityWorkItem, map[string]any{
			"name":         item.Name,
			"materialCost": item.MaterialRate,
			"laborCost":    item.LaborRate,
		}).Errors...)

		units := e.ResolveItemUnits(item)
		errs = append(errs, units.Errors...)

		material := item.MaterialRate * units.Units
		labor := item.LaborRate * units.Units
		out.MaterialCost += material
		out.LaborCost += labor

		if material > 0 {
			out.MaterialBreakdown = append(out.MaterialBreakdown, BreakdownLine{
				CategoryKey: item.CategoryKey,
				Category:    item.CategoryName,
				Item:        item.Name,
				Units:       units.Units,
				Rate:        item.MaterialRate,
				Total:       material,
			})
		}
		if labor > 0 {
			out.LaborBreakdown = append(out.LaborBreakdown, BreakdownLine{
				CategoryKey: item.CategoryKey,
				Category:    item.CategoryName,
				Item:        item.Name,
				Units:       units.Units,
				Rate:        item.LaborRate,
				Total:       labor,
			})
		}
		out.Errors = append(out.Errors, withPath(item.Path, errs)...)
	}
	return out
}

// BreakdownTotal sums the line totals of lines.
func BreakdownTotal(lines []BreakdownLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Total
	}
	return sum
}
