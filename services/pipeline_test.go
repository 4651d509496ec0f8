package services

import (
	"math"
	"testing"
)

func TestApplyAdjustments_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		settings  NormalizedSettings
		wantWaste float64
		wantSub   float64
		wantTax   float64
		wantMark  float64
		wantTotal float64
	}{
		{
			name:      "no adjustments",
			wantSub:   500,
			wantTotal: 500,
		},
		{
			name:      "flat waste",
			settings:  NormalizedSettings{WasteFactor: 0.1},
			wantWaste: 20,
			wantSub:   520,
			wantTotal: 520,
		},
		{
			name:      "waste tax and markup",
			settings:  NormalizedSettings{WasteFactor: 0.1, TaxRate: 0.08, MarkupRate: 0.15},
			wantWaste: 20,
			wantSub:   520,
			wantTax:   41.6,
			wantMark:  78,
			wantTotal: 639.6,
		},
		{
			name: "transportation and misc fees",
			settings: NormalizedSettings{
				WasteFactor:       0.1,
				TaxRate:           0.08,
				MarkupRate:        0.15,
				TransportationFee: 50,
				MiscFees:          []NormalizedFee{{Name: "Permit", Amount: 25}, {Name: "Dumpster", Amount: 10.4}},
			},
			wantWaste: 20,
			wantSub:   520,
			wantTax:   41.6,
			wantMark:  78,
			wantTotal: 725,
		},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ApplyAdjustments(200, 300, tt.settings)
			if !floatClose(got.Waste, tt.wantWaste) {
				t.Errorf("Waste = %v, want %v", got.Waste, tt.wantWaste)
			}
			if !floatClose(got.Subtotal, tt.wantSub) {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.wantSub)
			}
			if !floatClose(got.Tax, tt.wantTax) {
				t.Errorf("Tax = %v, want %v", got.Tax, tt.wantTax)
			}
			if !floatClose(got.Markup, tt.wantMark) {
				t.Errorf("Markup = %v, want %v", got.Markup, tt.wantMark)
			}
			if !floatClose(got.TotalProjectValue, tt.wantTotal) {
				t.Errorf("TotalProjectValue = %v, want %v", got.TotalProjectValue, tt.wantTotal)
			}
			if len(got.Errors) != 0 {
				t.Errorf("unexpected errors: %v", got.Errors)
			}
		})
	}
}

func TestApplyAdjustments_LaborDiscountBeforeSubtotal(t *testing.T) {
	got := testEngine().ApplyAdjustments(200, 300, NormalizedSettings{LaborDiscount: 0.1, TaxRate: 0.1})

	if !floatClose(got.LaborDiscountAmount, 30) {
		t.Errorf("LaborDiscountAmount = %v, want 30", got.LaborDiscountAmount)
	}
	if !floatClose(got.LaborCost, 270) {
		t.Errorf("LaborCost = %v, want 270", got.LaborCost)
	}
	if !floatClose(got.LaborCostBeforeDiscount, 300) {
		t.Errorf("LaborCostBeforeDiscount = %v, want 300", got.LaborCostBeforeDiscount)
	}
	if !floatClose(got.Subtotal, 470) {
		t.Errorf("Subtotal = %v, want 470", got.Subtotal)
	}
	if !floatClose(got.Tax, 47) {
		t.Errorf("Tax = %v, want 47", got.Tax)
	}
}

func TestApplyAdjustments_WasteEntriesSupersedeFlatFactor(t *testing.T) {
	e := testEngine()
	entries := []NormalizedWasteEntry{
		{SurfaceName: "Kitchen", SurfaceCost: 100, WasteFactor: 0.05},
		{SurfaceName: "Hall", SurfaceCost: 40, WasteFactor: 0.25},
	}

	withFlat := e.ApplyAdjustments(200, 300, NormalizedSettings{WasteFactor: 0.9, WasteEntries: entries})
	withoutFlat := e.ApplyAdjustments(200, 300, NormalizedSettings{WasteEntries: entries})

	if !floatClose(withFlat.Waste, 15) {
		t.Errorf("Waste = %v, want 15", withFlat.Waste)
	}
	if withFlat.Waste != withoutFlat.Waste {
		t.Errorf("flat factor leaked into entries mode: %v vs %v", withFlat.Waste, withoutFlat.Waste)
	}
}

func TestApplyAdjustments_InvalidWasteEntrySkipped(t *testing.T) {
	got := testEngine().ApplyAdjustments(200, 300, NormalizedSettings{
		WasteEntries: []NormalizedWasteEntry{
			{SurfaceName: "Bad", SurfaceCost: -50, WasteFactor: 0.1},
			{SurfaceName: "Good", SurfaceCost: 100, WasteFactor: 0.1},
		},
	})

	if !floatClose(got.Waste, 10) {
		t.Errorf("Waste = %v, want 10", got.Waste)
	}
	errs := ErrorsByCode(got.Errors, CodeBelowMin)
	if len(errs) != 1 || errs[0].Details["path"] != "settings.wasteEntries[0]" {
		t.Errorf("expected one BELOW_MIN at settings.wasteEntries[0], got %v", got.Errors)
	}
}

func TestApplyAdjustments_OutOfRangeSettingsClamped(t *testing.T) {
	got := testEngine().ApplyAdjustments(100, 0, NormalizedSettings{TaxRate: 2, MarkupRate: -1})

	if !floatClose(got.Tax, 50) {
		t.Errorf("Tax = %v, want 50 (clamped to the maximum rate)", got.Tax)
	}
	if got.Markup != 0 {
		t.Errorf("Markup = %v, want 0 (clamped to the minimum)", got.Markup)
	}
	if !hasCode(got.Errors, CodeAboveMax) || !hasCode(got.Errors, CodeBelowMin) {
		t.Errorf("expected ABOVE_MAX and BELOW_MIN, got %v", got.Errors)
	}
}

func TestApplyAdjustments_NegativeMiscFeeExcluded(t *testing.T) {
	got := testEngine().ApplyAdjustments(100, 0, NormalizedSettings{
		MiscFees: []NormalizedFee{{Name: "Refund", Amount: -20}, {Name: "Permit", Amount: 30}},
	})

	if !floatClose(got.MiscFeesTotal, 30) {
		t.Errorf("MiscFeesTotal = %v, want 30", got.MiscFeesTotal)
	}
	if !floatClose(got.TotalProjectValue, 130) {
		t.Errorf("TotalProjectValue = %v, want 130", got.TotalProjectValue)
	}
}

func TestApplyAdjustments_NonFiniteInputCoerced(t *testing.T) {
	got := testEngine().ApplyAdjustments(math.NaN(), 300, NormalizedSettings{TaxRate: 0.1})

	if got.MaterialCost != 0 {
		t.Errorf("MaterialCost = %v, want 0", got.MaterialCost)
	}
	if !floatClose(got.TotalProjectValue, 330) {
		t.Errorf("TotalProjectValue = %v, want 330", got.TotalProjectValue)
	}
	for _, v := range []float64{got.Subtotal, got.Tax, got.Markup, got.TotalProjectValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite value leaked into the result: %+v", got)
		}
	}
	errs := ErrorsByCode(got.Errors, CodeNaNCoerced)
	if len(errs) != 1 || errs[0].Category != CategoryCalculation {
		t.Errorf("expected one CALCULATION NAN_COERCED, got %v", got.Errors)
	}
}

func TestApplyAdjustments_TotalEqualsSumOfParts(t *testing.T) {
	got := testEngine().ApplyAdjustments(1234.56, 789.01, NormalizedSettings{
		TaxRate:           0.0825,
		MarkupRate:        0.2,
		WasteFactor:       0.07,
		LaborDiscount:     0.03,
		TransportationFee: 99.99,
		MiscFees:          []NormalizedFee{{Amount: 12.34}},
	})

	sum := got.Subtotal + got.Tax + got.Markup + got.Transportation + got.MiscFeesTotal
	if math.Abs(sum-got.TotalProjectValue) > 1e-9 {
		t.Errorf("total %v != parts %v", got.TotalProjectValue, sum)
	}
	if hasCode(got.Errors, CodeInconsistentTotals) {
		t.Errorf("unexpected INCONSISTENT_TOTALS: %v", got.Errors)
	}
}
