package services

import (
	"fmt"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
)

// EntityType names a schema known to the Validator.
type EntityType string

const (
	EntityWorkItem   EntityType = "workItem"
	EntitySurface    EntityType = "surface"
	EntitySettings   EntityType = "settings"
	EntityCategory   EntityType = "category"
	EntityWasteEntry EntityType = "wasteEntry"
	EntityMiscFee    EntityType = "miscFee"
	EntityPayment    EntityType = "payment"
)

// Bounds describes an allowed numeric range. A nil Min or Max leaves that
// side open.
type Bounds struct {
	Min          *float64
	Max          *float64
	AllowDecimal bool
	// Severity of range violations; defaults to SeverityError.
	Severity Severity
}

func Between(min, max float64) Bounds {
	return Bounds{Min: &min, Max: &max, AllowDecimal: true}
}

func AtLeast(min float64) Bounds {
	return Bounds{Min: &min, AllowDecimal: true}
}

// Integer disallows fractional values.
func (b Bounds) Integer() Bounds {
	b.AllowDecimal = false
	return b
}

// Lenient reports violations as warnings.
func (b Bounds) Lenient() Bounds {
	b.Severity = SeverityWarning
	return b
}

// Clamp forces v into the range. Fractional values are truncated when
// decimals are not allowed.
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if b.Min != nil && v < *b.Min {
		v = *b.Min
	}
	if b.Max != nil && v > *b.Max {
		v = *b.Max
	}
	if !b.AllowDecimal {
		v = math.Trunc(v)
	}
	return v
}

// CheckRange is the single bounded-range check used by every component, so
// min/max/precision semantics are identical everywhere.
func CheckRange(field string, value float64, b Bounds) []CalcError {
	sev := b.Severity
	if sev == "" {
		sev = SeverityError
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []CalcError{newCalcError(CategoryValidation, SeverityError, CodeNaNCoerced, field,
			field+" is not a finite number and was treated as 0", nil)}
	}

	var errs []CalcError
	if b.Min != nil {
		// ozzo treats zero as empty and skips threshold rules for it.
		below := value == 0 && *b.Min > 0
		if err := validation.Validate(value, validation.Min(*b.Min)); err != nil {
			below = true
		}
		if below {
			errs = append(errs, newCalcError(CategoryValidation, sev, CodeBelowMin, field,
				fmt.Sprintf("%s must be at least %g", field, *b.Min),
				map[string]any{"value": value, "min": *b.Min}))
		}
	}
	if b.Max != nil {
		if err := validation.Validate(value, validation.Max(*b.Max)); err != nil {
			errs = append(errs, newCalcError(CategoryValidation, sev, CodeAboveMax, field,
				fmt.Sprintf("%s must be at most %g", field, *b.Max),
				map[string]any{"value": value, "max": *b.Max}))
		}
	}
	if !b.AllowDecimal && value != math.Trunc(value) {
		errs = append(errs, newCalcError(CategoryValidation, sev, CodeDecimalNotAllowed, field,
			field+" must be a whole number", map[string]any{"value": value}))
	}
	return errs
}

// FieldKind is the expected type of a schema field.
type FieldKind int

const (
	KindNumber FieldKind = iota
	KindString
)

// FieldRule is one field of an entity schema.
type FieldRule struct {
	Field    string
	Kind     FieldKind
	Required bool
	Bounds   Bounds
	MinLen   int
	MaxLen   int
}

// ValidationResult is the outcome of validating one entity.
type ValidationResult struct {
	IsValid bool        `json:"isValid"`
	Errors  []CalcError `json:"errors"`
}

// Validator runs schema-driven field checks. It never panics and never
// returns a Go error; problems come back as CalcErrors.
type Validator struct {
	schemas map[EntityType][]FieldRule
}

func NewValidator(cfg EngineConfig) *Validator {
	cfg = cfg.withDefaults()
	qty := Between(0, cfg.MaxSurfaceQuantity)
	rate := Between(0, cfg.MaxRate).Lenient()

	return &Validator{schemas: map[EntityType][]FieldRule{
		EntityWorkItem: {
			{Field: "name", Kind: KindString, Required: true, MinLen: 1, MaxLen: 200},
			{Field: "measurementType", Kind: KindString, MaxLen: 40},
			{Field: "materialCost", Kind: KindNumber, Bounds: rate},
			{Field: "laborCost", Kind: KindNumber, Bounds: rate},
		},
		EntitySurface: {
			{Field: "name", Kind: KindString, MaxLen: 200},
			{Field: "sqft", Kind: KindNumber, Bounds: qty},
			{Field: "width", Kind: KindNumber, Bounds: qty},
			{Field: "height", Kind: KindNumber, Bounds: qty},
			{Field: "linearFt", Kind: KindNumber, Bounds: qty},
			{Field: "units", Kind: KindNumber, Bounds: qty.Integer()},
		},
		EntitySettings: {
			{Field: "taxRate", Kind: KindNumber, Bounds: Between(0, cfg.MaxTaxRate)},
			{Field: "markup", Kind: KindNumber, Bounds: Between(0, cfg.MaxMarkupRate)},
			{Field: "wasteFactor", Kind: KindNumber, Bounds: Between(0, cfg.MaxWasteFactor)},
			{Field: "laborDiscount", Kind: KindNumber, Bounds: Between(0, 1)},
			{Field: "transportationFee", Kind: KindNumber, Bounds: AtLeast(0)},
			{Field: "deposit", Kind: KindNumber, Bounds: AtLeast(0)},
		},
		EntityCategory: {
			{Field: "key", Kind: KindString, MaxLen: 100},
			{Field: "name", Kind: KindString, Required: true, MinLen: 1, MaxLen: 200},
		},
		EntityWasteEntry: {
			{Field: "surfaceName", Kind: KindString, MaxLen: 200},
			{Field: "surfaceCost", Kind: KindNumber, Bounds: AtLeast(0)},
			{Field: "wasteFactor", Kind: KindNumber, Bounds: Between(0, cfg.MaxWasteFactor)},
		},
		EntityMiscFee: {
			{Field: "name", Kind: KindString, MaxLen: 200},
			{Field: "amount", Kind: KindNumber, Bounds: AtLeast(0)},
		},
		EntityPayment: {
			{Field: "amount", Kind: KindNumber, Required: true, Bounds: AtLeast(0)},
			{Field: "date", Kind: KindString, MaxLen: 40},
			{Field: "method", Kind: KindString, MaxLen: 60},
			{Field: "type", Kind: KindString, MaxLen: 60},
		},
	}}
}

// Rule returns the schema rule for entity.field.
func (v *Validator) Rule(entity EntityType, field string) (FieldRule, bool) {
	for _, r := range v.schemas[entity] {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

// bounds returns the bounds of entity.field, or an open range when unknown.
func (v *Validator) bounds(entity EntityType, field string) Bounds {
	if r, ok := v.Rule(entity, field); ok {
		return r.Bounds
	}
	return Bounds{AllowDecimal: true}
}

// Validate checks values against the schema of entity. Fields not in the
// schema are ignored; values may be numbers, numeric strings, Numbers or
// strings.
func (v *Validator) Validate(entity EntityType, values map[string]any) ValidationResult {
	rules, ok := v.schemas[entity]
	if !ok {
		return ValidationResult{Errors: []CalcError{validationError(CodeInvalidType, "",
			fmt.Sprintf("unknown entity type %q", entity), nil)}}
	}

	var errs []CalcError
	for _, r := range rules {
		errs = append(errs, checkField(r, values[r.Field])...)
	}
	return ValidationResult{IsValid: !HasBlockingErrors(errs), Errors: errs}
}

func checkField(r FieldRule, raw any) []CalcError {
	if n, ok := raw.(Number); ok {
		if !n.IsSet() {
			raw = nil
		} else if !n.IsValid() {
			_, errs := n.resolve(r.Field)
			return errs
		} else {
			raw = n.Float()
		}
	}

	if isEmpty(raw) {
		if r.Required {
			return []CalcError{validationError(CodeRequired, r.Field, r.Field+" is required", nil)}
		}
		return nil
	}

	switch r.Kind {
	case KindNumber:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return []CalcError{validationError(CodeInvalidType, r.Field,
				r.Field+" is not a number", map[string]any{"value": raw})}
		}
		return CheckRange(r.Field, f, r.Bounds)
	case KindString:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return []CalcError{validationError(CodeInvalidType, r.Field,
				r.Field+" is not text", map[string]any{"value": raw})}
		}
		return checkLength(r, strings.TrimSpace(s))
	}
	return nil
}

func checkLength(r FieldRule, s string) []CalcError {
	if r.Required {
		if err := validation.Validate(s, validation.Required); err != nil {
			return []CalcError{validationError(CodeRequired, r.Field, r.Field+" is required", nil)}
		}
	}
	if r.MaxLen == 0 && r.MinLen == 0 {
		return nil
	}
	if err := validation.Validate(s, validation.RuneLength(r.MinLen, r.MaxLen)); err != nil {
		code := CodeTooLong
		msg := fmt.Sprintf("%s must be at most %d characters", r.Field, r.MaxLen)
		if len([]rune(s)) < r.MinLen {
			code = CodeTooShort
			msg = fmt.Sprintf("%s must be at least %d characters", r.Field, r.MinLen)
		}
		return []CalcError{validationError(code, r.Field, msg, map[string]any{"length": len([]rune(s))})}
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func (v *Validator) ValidateWorkItem(w WorkItem) ValidationResult {
	return v.Validate(EntityWorkItem, map[string]any{
		"name":            w.Name,
		"measurementType": w.MeasurementType,
		"materialCost":    w.MaterialCost,
		"laborCost":       w.LaborCost,
	})
}

func (v *Validator) ValidateSurface(s Surface) ValidationResult {
	return v.Validate(EntitySurface, map[string]any{
		"name":     s.Name,
		"sqft":     s.Sqft,
		"width":    s.Width,
		"height":   s.Height,
		"linearFt": s.LinearFt,
		"units":    s.Units,
	})
}

func (v *Validator) ValidateSettings(s Settings) ValidationResult {
	res := v.Validate(EntitySettings, map[string]any{
		"taxRate":           s.TaxRate,
		"markup":            s.Markup,
		"wasteFactor":       s.WasteFactor,
		"laborDiscount":     s.LaborDiscount,
		"transportationFee": s.TransportationFee,
		"deposit":           s.Deposit,
	})
	for i, we := range s.WasteEntries {
		r := v.Validate(EntityWasteEntry, map[string]any{
			"surfaceName": we.SurfaceName,
			"surfaceCost": we.SurfaceCost,
			"wasteFactor": we.WasteFactor,
		})
		res.Errors = append(res.Errors, withPath(fmt.Sprintf("wasteEntries[%d]", i), r.Errors)...)
	}
	for i, f := range s.MiscFees {
		r := v.Validate(EntityMiscFee, map[string]any{"name": f.Name, "amount": f.Amount})
		res.Errors = append(res.Errors, withPath(fmt.Sprintf("miscFees[%d]", i), r.Errors)...)
	}
	for i, p := range s.Payments {
		r := v.Validate(EntityPayment, map[string]any{
			"amount": p.Amount,
			"date":   p.Date,
			"method": p.Method,
			"type":   p.Type,
		})
		res.Errors = append(res.Errors, withPath(fmt.Sprintf("payments[%d]", i), r.Errors)...)
	}
	res.IsValid = !HasBlockingErrors(res.Errors)
	return res
}

func (v *Validator) ValidateCategory(c Category) ValidationResult {
	return v.Validate(EntityCategory, map[string]any{"key": c.Key, "name": c.Name})
}
