package services

import "testing"

func TestResolveSurfaceUnits(t *testing.T) {
	tests := []struct {
		name      string
		m         Measurement
		want      float64
		wantCodes []string
	}{
		{"sqft", Measurement{Kind: MeasurementSingleSurface, Sqft: 120}, 120, nil},
		{"width by height", Measurement{Kind: MeasurementSingleSurface, Width: 10, Height: 8}, 80, nil},
		{"sqft wins over dimensions", Measurement{Kind: MeasurementSingleSurface, Sqft: 50, Width: 10, Height: 8}, 50, nil},
		{"negative sqft falls back to dimensions", Measurement{Kind: MeasurementSingleSurface, Sqft: -5, Width: 2, Height: 3}, 6, []string{CodeBelowMin}},
		{"missing height", Measurement{Kind: MeasurementSingleSurface, Width: 10}, 0, nil},
		{"nothing", Measurement{Kind: MeasurementSingleSurface}, 0, nil},
		{"linear feet", Measurement{Kind: MeasurementLinearFoot, LinearFt: 42.5, Sqft: 900}, 42.5, nil},
		{"units", Measurement{Kind: MeasurementByUnit, Units: 7, Sqft: 900}, 7, nil},
		{"fractional units truncated", Measurement{Kind: MeasurementByUnit, Units: 3.7}, 3, []string{CodeDecimalNotAllowed}},
		{"negative units", Measurement{Kind: MeasurementByUnit, Units: -2}, 0, []string{CodeBelowMin}},
		{"sqft above max clamped", Measurement{Kind: MeasurementSingleSurface, Sqft: 250_000}, DefaultMaxSurfaceQuantity, []string{CodeAboveMax}},
		{"area above max clamped", Measurement{Kind: MeasurementSingleSurface, Width: 1000, Height: 1000}, DefaultMaxSurfaceQuantity, []string{CodeAboveMax}},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := e.ResolveSurfaceUnits(tt.m)
			if !floatClose(got, tt.want) {
				t.Errorf("units = %v, want %v", got, tt.want)
			}
			if len(errs) != len(tt.wantCodes) {
				t.Fatalf("errors = %v, want codes %v", errs, tt.wantCodes)
			}
			for i, code := range tt.wantCodes {
				if errs[i].Code != code {
					t.Errorf("errs[%d].Code = %s, want %s", i, errs[i].Code, code)
				}
			}
		})
	}
}

func TestResolveItemUnits_SumsSurfaces(t *testing.T) {
	item := NormalizedItem{
		Kind: MeasurementSingleSurface,
		Surfaces: []Measurement{
			{Kind: MeasurementSingleSurface, Sqft: 100},
			{Kind: MeasurementSingleSurface, Sqft: -1},
			{Kind: MeasurementSingleSurface, Width: 5, Height: 4},
		},
	}

	got := testEngine().ResolveItemUnits(item)

	if !floatClose(got.Units, 120) {
		t.Errorf("Units = %v, want 120", got.Units)
	}
	if len(got.PerSurface) != 3 || got.PerSurface[1] != 0 {
		t.Errorf("PerSurface = %v", got.PerSurface)
	}
	if len(got.Errors) != 1 || got.Errors[0].Details["path"] != "surfaces[1]" {
		t.Errorf("expected one error at surfaces[1], got %v", got.Errors)
	}
}

func TestResolveItemUnits_ClampedToMax(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MaxUnits = 150
	e := NewEngine(cfg)

	got := e.ResolveItemUnits(NormalizedItem{Surfaces: []Measurement{
		{Kind: MeasurementByUnit, Units: 100},
		{Kind: MeasurementByUnit, Units: 100},
	}})

	if got.Units != 150 || !got.Clamped {
		t.Errorf("Units = %v Clamped = %v, want 150 true", got.Units, got.Clamped)
	}
	if !hasCode(got.Errors, CodeUnitsClamped) {
		t.Errorf("expected UNITS_CLAMPED, got %v", got.Errors)
	}
}
