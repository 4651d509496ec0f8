package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// MeasurementKind is the tagged variant of a surface measurement.
type MeasurementKind string

const (
	MeasurementSingleSurface MeasurementKind = "single-surface"
	MeasurementLinearFoot    MeasurementKind = "linear-foot"
	MeasurementByUnit        MeasurementKind = "by-unit"
)

var measurementAliases = map[string]MeasurementKind{
	"single-surface": MeasurementSingleSurface,
	"single_surface": MeasurementSingleSurface,
	"sqft":           MeasurementSingleSurface,
	"square-feet":    MeasurementSingleSurface,
	"area":           MeasurementSingleSurface,
	"linear-foot":    MeasurementLinearFoot,
	"linear_foot":    MeasurementLinearFoot,
	"linear-ft":      MeasurementLinearFoot,
	"linearft":       MeasurementLinearFoot,
	"lf":             MeasurementLinearFoot,
	"by-unit":        MeasurementByUnit,
	"by_unit":        MeasurementByUnit,
	"unit":           MeasurementByUnit,
	"units":          MeasurementByUnit,
	"each":           MeasurementByUnit,
}

// ParseMeasurementKind maps a stored measurement type to its variant.
func ParseMeasurementKind(s string) (MeasurementKind, bool) {
	k, ok := measurementAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// Measurement is one normalized surface. Only the fields relevant to Kind
// are meaningful; zero means "not provided".
type Measurement struct {
	Kind     MeasurementKind
	Name     string
	Subtype  string
	Sqft     float64
	Width    float64
	Height   float64
	LinearFt float64
	Units    float64
	// Legacy is set when the measurement was synthesized from flat fields
	// on the work item.
	Legacy bool
}

// NormalizedItem is a work item in the canonical shape consumed by the
// UnitResolver and CostAggregator.
type NormalizedItem struct {
	CategoryKey  string
	CategoryName string
	Name         string
	Type         string
	Kind         MeasurementKind
	MaterialRate float64
	LaborRate    float64
	Surfaces     []Measurement
	// Path locates the item in the source project for error reporting.
	Path string
}

type NormalizedWasteEntry struct {
	SurfaceName string
	SurfaceCost float64
	WasteFactor float64
}

type NormalizedFee struct {
	Name   string
	Amount float64
}

// LedgerEntry is a normalized payment.
type LedgerEntry struct {
	ID        string  `json:"id,omitempty"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date,omitempty"`
	Method    string  `json:"method,omitempty"`
	Type      string  `json:"type,omitempty"`
	Note      string  `json:"note,omitempty"`
	IsPaid    bool    `json:"isPaid"`
	IsDeposit bool    `json:"isDeposit"`
	// Valid is false when the amount failed validation; such entries
	// never count toward totals.
	Valid bool `json:"-"`
}

type NormalizedSettings struct {
	TaxRate           float64
	MarkupRate        float64
	WasteFactor       float64
	WasteEntries      []NormalizedWasteEntry
	TransportationFee float64
	MiscFees          []NormalizedFee
	LaborDiscount     float64
	LegacyDeposit     float64
	Payments          []LedgerEntry
}

type NormalizedProject struct {
	Items       []NormalizedItem
	Settings    NormalizedSettings
	HasSettings bool
	StartDate   time.Time
	HasStart    bool
}

func categoryPath(i int) string { return fmt.Sprintf("categories[%d]", i) }

// NormalizeProject converts p into the canonical shape. It is the only place
// that knows about legacy field layouts and tolerant number parsing. It
// never modifies p.
func NormalizeProject(p Project) (NormalizedProject, []CalcError) {
	var out NormalizedProject
	var errs []CalcError

	for ci, c := range p.Categories {
		for wi, w := range c.WorkItems {
			path := fmt.Sprintf("%s.workItems[%d]", categoryPath(ci), wi)
			item, itemErrs := NormalizeWorkItem(w)
			item.CategoryKey = c.Key
			item.CategoryName = c.Name
			item.Path = path
			out.Items = append(out.Items, item)
			errs = append(errs, withPath(path, itemErrs)...)
		}
	}

	if p.Settings != nil {
		s, sErrs := NormalizeSettings(*p.Settings)
		out.Settings = s
		out.HasSettings = true
		errs = append(errs, withPath("settings", sErrs)...)
	}

	if d := strings.TrimSpace(p.CustomerInfo.StartDate); d != "" {
		t, err := ParseDate(d)
		if err != nil {
			errs = append(errs, validationWarning(CodeInvalidDate, "customerInfo.startDate",
				"project start date is not a valid date", map[string]any{"value": d}))
		} else {
			out.StartDate = t
			out.HasStart = true
		}
	}
	return out, errs
}

// NormalizeWorkItem resolves the item's measurement kind and converts its
// surfaces (or legacy flat fields) into tagged Measurements.
func NormalizeWorkItem(w WorkItem) (NormalizedItem, []CalcError) {
	var errs []CalcError
	item := NormalizedItem{Name: w.Name, Type: w.Type}

	itemKind, kindErrs := resolveKind(w.MeasurementType, MeasurementSingleSurface, "measurementType")
	item.Kind = itemKind
	errs = append(errs, kindErrs...)

	var e []CalcError
	item.MaterialRate, e = w.MaterialCost.resolve("materialCost")
	errs = append(errs, e...)
	item.LaborRate, e = w.LaborCost.resolve("laborCost")
	errs = append(errs, e...)

	switch {
	case len(w.Surfaces) > 0:
		for si, s := range w.Surfaces {
			m, sErrs := normalizeSurface(s, itemKind)
			item.Surfaces = append(item.Surfaces, m)
			errs = append(errs, withPath(fmt.Sprintf("surfaces[%d]", si), sErrs)...)
		}
		if w.hasLegacyMeasurement() {
			errs = append(errs, migrationNotice(CodeLegacyShape, "",
				"flat measurement fields ignored because surfaces are present", nil))
		}
	case w.hasLegacyMeasurement():
		m, sErrs := normalizeSurface(Surface{
			Name:     w.Name,
			Sqft:     w.Sqft,
			Width:    w.Width,
			Height:   w.Height,
			LinearFt: w.LinearFt,
			Units:    w.Units,
		}, itemKind)
		m.Legacy = true
		item.Surfaces = []Measurement{m}
		errs = append(errs, sErrs...)
		errs = append(errs, migrationNotice(CodeLegacyShape, "",
			"work item uses legacy flat measurement fields; converted to a single surface", nil))
	}
	return item, errs
}

func normalizeSurface(s Surface, inherited MeasurementKind) (Measurement, []CalcError) {
	var errs []CalcError
	kind := inherited
	if strings.TrimSpace(s.MeasurementType) != "" {
		var kErrs []CalcError
		kind, kErrs = resolveKind(s.MeasurementType, inherited, "measurementType")
		errs = append(errs, kErrs...)
	}

	m := Measurement{Kind: kind, Name: s.Name, Subtype: s.Subtype}
	var e []CalcError
	m.Sqft, e = s.Sqft.resolve("sqft")
	errs = append(errs, e...)
	m.Width, e = s.Width.resolve("width")
	errs = append(errs, e...)
	m.Height, e = s.Height.resolve("height")
	errs = append(errs, e...)
	m.LinearFt, e = s.LinearFt.resolve("linearFt")
	errs = append(errs, e...)
	m.Units, e = s.Units.resolve("units")
	errs = append(errs, e...)
	return m, errs
}

// resolveKind parses raw, falling back to def when raw is empty. An
// unrecognized value falls back to sqft-style derivation with a warning.
func resolveKind(raw string, def MeasurementKind, field string) (MeasurementKind, []CalcError) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	if k, ok := ParseMeasurementKind(raw); ok {
		return k, nil
	}
	return MeasurementSingleSurface, []CalcError{validationWarning(CodeUnknownMeasurementType, field,
		fmt.Sprintf("unknown measurement type %q; using square-foot derivation", raw),
		map[string]any{"value": raw})}
}

// NormalizeSettings resolves every numeric setting, coercing invalid values
// to 0. Range checks are left to the pipeline and ledger.
func NormalizeSettings(s Settings) (NormalizedSettings, []CalcError) {
	var errs []CalcError
	var out NormalizedSettings
	var e []CalcError

	out.TaxRate, e = s.TaxRate.resolve("taxRate")
	errs = append(errs, e...)
	out.MarkupRate, e = s.Markup.resolve("markup")
	errs = append(errs, e...)
	out.WasteFactor, e = s.WasteFactor.resolve("wasteFactor")
	errs = append(errs, e...)
	out.TransportationFee, e = s.TransportationFee.resolve("transportationFee")
	errs = append(errs, e...)
	out.LaborDiscount, e = s.LaborDiscount.resolve("laborDiscount")
	errs = append(errs, e...)
	out.LegacyDeposit, e = s.Deposit.resolve("deposit")
	errs = append(errs, e...)

	for i, we := range s.WasteEntries {
		entry := NormalizedWasteEntry{SurfaceName: we.SurfaceName}
		var weErrs []CalcError
		entry.SurfaceCost, e = we.SurfaceCost.resolve("surfaceCost")
		weErrs = append(weErrs, e...)
		entry.WasteFactor, e = we.WasteFactor.resolve("wasteFactor")
		weErrs = append(weErrs, e...)
		out.WasteEntries = append(out.WasteEntries, entry)
		errs = append(errs, withPath(fmt.Sprintf("wasteEntries[%d]", i), weErrs)...)
	}

	for i, f := range s.MiscFees {
		amount, fErrs := f.Amount.resolve("amount")
		out.MiscFees = append(out.MiscFees, NormalizedFee{Name: f.Name, Amount: amount})
		errs = append(errs, withPath(fmt.Sprintf("miscFees[%d]", i), fErrs)...)
	}

	for i, p := range s.Payments {
		amount, pErrs := p.Amount.resolve("amount")
		out.Payments = append(out.Payments, LedgerEntry{
			ID:        p.ID,
			Amount:    amount,
			Date:      p.Date,
			Method:    p.Method,
			Type:      p.Type,
			Note:      p.Note,
			IsPaid:    p.Paid(),
			IsDeposit: p.IsDeposit(),
			Valid:     len(pErrs) == 0,
		})
		errs = append(errs, withPath(fmt.Sprintf("payments[%d]", i), pErrs)...)
	}
	return out, errs
}

// ParseDate parses the date formats found in stored projects (ISO dates,
// RFC 3339 timestamps and the other layouts cast understands).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return cast.ToTimeE(s)
}
