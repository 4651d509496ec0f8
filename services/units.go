package services

import "fmt"

// UnitsResult is the billable quantity of one work item.
type UnitsResult struct {
	Units      float64     `json:"units"`
	PerSurface []float64   `json:"perSurface"`
	Clamped    bool        `json:"clamped"`
	Errors     []CalcError `json:"errors,omitempty"`
}

// ResolveSurfaceUnits returns the billable quantity of one measurement.
//
// Precedence: explicit stored quantity, then width x height (square-foot
// kind only), then 0. A stored value that fails validation is treated as
// absent; a value above the limit is clamped.
func (e *Engine) ResolveSurfaceUnits(m Measurement) (float64, []CalcError) {
	switch m.Kind {
	case MeasurementLinearFoot:
		return e.quantity(m.LinearFt, "linearFt")
	case MeasurementByUnit:
		return e.quantity(m.Units, "units")
	}

	var errs []CalcError
	if m.Sqft != 0 {
		v, sqftErrs := e.quantity(m.Sqft, "sqft")
		errs = append(errs, sqftErrs...)
		if v > 0 {
			return v, errs
		}
	}
	if m.Width == 0 || m.Height == 0 {
		return 0, errs
	}
	w, wErrs := e.quantity(m.Width, "width")
	h, hErrs := e.quantity(m.Height, "height")
	errs = append(errs, wErrs...)
	errs = append(errs, hErrs...)
	area := w * h
	if limit := e.cfg.MaxSurfaceQuantity; area > limit {
		errs = append(errs, CheckRange("sqft", area, Between(0, limit))...)
		area = limit
	}
	return area, errs
}

// quantity validates a stored quantity against the surface schema. Values
// below the minimum contribute 0, values above the maximum are clamped and
// fractional whole-number quantities are truncated.
func (e *Engine) quantity(v float64, field string) (float64, []CalcError) {
	if v == 0 {
		return 0, nil
	}
	b := e.validator.bounds(EntitySurface, field)
	errs := CheckRange(field, v, b)
	if b.Min != nil && v < *b.Min {
		return 0, errs
	}
	return b.Clamp(v), errs
}

// ResolveItemUnits sums the quantities of every surface of item, clamped to
// the configured per-item maximum. A failing surface contributes 0 without
// stopping its siblings.
func (e *Engine) ResolveItemUnits(item NormalizedItem) UnitsResult {
	res := UnitsResult{PerSurface: make([]float64, 0, len(item.Surfaces))}
	for i, m := range item.Surfaces {
		v, errs := e.ResolveSurfaceUnits(m)
		res.PerSurface = append(res.PerSurface, v)
		res.Units += v
		res.Errors = append(res.Errors, withPath(fmt.Sprintf("surfaces[%d]", i), errs)...)
	}
	if limit := e.cfg.MaxUnits; res.Units > limit {
		res.Errors = append(res.Errors, validationError(CodeUnitsClamped, "units",
			fmt.Sprintf("total units %g exceed the maximum of %g and were clamped", res.Units, limit),
			map[string]any{"value": res.Units, "max": limit}))
		res.Units = limit
		res.Clamped = true
	}
	return res
}
