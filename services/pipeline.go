package services

import (
	"fmt"
	"math"
)

// consistencyEpsilon bounds the drift allowed between the grand total and
// the sum of its parts before a CALCULATION error is raised.
const consistencyEpsilon = 1e-6

// Adjustments is the output of the adjustment pipeline. Values carry full
// float precision; use Rounded on the enclosing summary for display.
type Adjustments struct {
	MaterialCost            float64     `json:"materialCost"`
	LaborCostBeforeDiscount float64     `json:"laborCostBeforeDiscount"`
	LaborDiscountAmount     float64     `json:"laborDiscountAmount"`
	LaborCost               float64     `json:"laborCost"`
	Waste                   float64     `json:"waste"`
	Subtotal                float64     `json:"subtotal"`
	Tax                     float64     `json:"tax"`
	Markup                  float64     `json:"markup"`
	Transportation          float64     `json:"transportation"`
	MiscFeesTotal           float64     `json:"miscFeesTotal"`
	TotalProjectValue       float64     `json:"totalProjectValue"`
	Errors                  []CalcError `json:"errors,omitempty"`
}

// ApplyAdjustments runs the fixed pipeline:
//
//  1. labor discount
//  2. waste (entries mode or flat factor, never both)
//  3. subtotal = material + waste + discounted labor
//  4. tax and markup as percentages of subtotal
//  5. transportation fee
//  6. misc fees
//  7. total project value
//
// The order must not change.
func (e *Engine) ApplyAdjustments(materialCost, laborCost float64, s NormalizedSettings) Adjustments {
	var errs []CalcError
	guard := func(stage string, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, newCalcError(CategoryCalculation, SeverityError, CodeNaNCoerced, stage,
				fmt.Sprintf("%s produced a non-finite value and was treated as 0", stage), nil))
			return 0
		}
		return v
	}
	setting := func(field string, v float64) float64 {
		b := e.validator.bounds(EntitySettings, field)
		fieldErrs := CheckRange(field, v, b)
		errs = append(errs, withPath("settings", fieldErrs)...)
		return b.Clamp(v)
	}

	out := Adjustments{
		MaterialCost:            guard("materialCost", materialCost),
		LaborCostBeforeDiscount: guard("laborCost", laborCost),
	}

	discount := setting("laborDiscount", s.LaborDiscount)
	out.LaborDiscountAmount = guard("laborDiscountAmount", out.LaborCostBeforeDiscount*discount)
	out.LaborCost = guard("laborCost", out.LaborCostBeforeDiscount-out.LaborDiscountAmount)

	out.Waste = guard("waste", e.waste(out.MaterialCost, s, &errs))

	out.Subtotal = guard("subtotal", out.MaterialCost+out.Waste+out.LaborCost)

	taxRate := setting("taxRate", s.TaxRate)
	markupRate := setting("markup", s.MarkupRate)
	out.Tax = guard("tax", out.Subtotal*taxRate)
	out.Markup = guard("markup", out.Subtotal*markupRate)

	out.Transportation = guard("transportation", setting("transportationFee", s.TransportationFee))

	out.MiscFeesTotal = guard("miscFeesTotal", e.miscFees(s.MiscFees, &errs))

	out.TotalProjectValue = guard("totalProjectValue",
		out.Subtotal+out.Tax+out.Markup+out.Transportation+out.MiscFeesTotal)

	if err := checkConsistency(out); err != nil {
		errs = append(errs, *err)
	}
	out.Errors = errs
	return out
}

// waste returns the material waste. Non-empty waste entries fully supersede
// the flat waste factor.
func (e *Engine) waste(materialCost float64, s NormalizedSettings, errs *[]CalcError) float64 {
	if len(s.WasteEntries) == 0 {
		b := e.validator.bounds(EntitySettings, "wasteFactor")
		*errs = append(*errs, withPath("settings", CheckRange("wasteFactor", s.WasteFactor, b))...)
		return materialCost * b.Clamp(s.WasteFactor)
	}

	costBounds := e.validator.bounds(EntityWasteEntry, "surfaceCost")
	factorBounds := e.validator.bounds(EntityWasteEntry, "wasteFactor")
	var total float64
	for i, we := range s.WasteEntries {
		path := fmt.Sprintf("settings.wasteEntries[%d]", i)
		costErrs := CheckRange("surfaceCost", we.SurfaceCost, costBounds)
		factorErrs := CheckRange("wasteFactor", we.WasteFactor, factorBounds)
		*errs = append(*errs, withPath(path, costErrs)...)
		*errs = append(*errs, withPath(path, factorErrs)...)
		if len(costErrs) > 0 {
			continue
		}
		total += we.SurfaceCost * factorBounds.Clamp(we.WasteFactor)
	}
	return total
}

// miscFees sums fee amounts. Negative amounts are reported and excluded.
func (e *Engine) miscFees(fees []NormalizedFee, errs *[]CalcError) float64 {
	b := e.validator.bounds(EntityMiscFee, "amount")
	var total float64
	for i, f := range fees {
		feeErrs := CheckRange("amount", f.Amount, b)
		if len(feeErrs) > 0 {
			*errs = append(*errs, withPath(fmt.Sprintf("settings.miscFees[%d]", i), feeErrs)...)
			continue
		}
		total += f.Amount
	}
	return total
}

func checkConsistency(a Adjustments) *CalcError {
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"subtotal", a.Subtotal, a.MaterialCost + a.Waste + a.LaborCost},
		{"totalProjectValue", a.TotalProjectValue, a.Subtotal + a.Tax + a.Markup + a.Transportation + a.MiscFeesTotal},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > consistencyEpsilon {
			err := newCalcError(CategoryCalculation, SeverityError, CodeInconsistentTotals, c.name,
				fmt.Sprintf("%s does not match the sum of its parts", c.name),
				map[string]any{"value": c.got, "expected": c.want})
			return &err
		}
	}
	return nil
}
