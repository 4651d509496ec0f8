// Package services holds the estimate calculation engine (costs, adjustments,
// payments and revenue recognition) and the exports built on top of it.
package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cast"
)

// Number is a tolerant numeric field of the Project JSON contract. It accepts
// JSON numbers, numeric strings and null. Anything else is kept as invalid
// and resolves to 0 with a validation error.
type Number struct {
	value   float64
	set     bool
	invalid bool
	raw     string
}

// Num returns a set Number holding v.
func Num(v float64) Number {
	return Number{value: v, set: true}
}

// Float returns the stored value, or 0 when unset or invalid.
func (n Number) Float() float64 {
	if !n.set || n.invalid {
		return 0
	}
	return n.value
}

// IsSet reports whether the field was present and non-null.
func (n Number) IsSet() bool { return n.set }

// IsValid reports whether the field holds a finite number (or is unset).
func (n Number) IsValid() bool {
	if !n.set {
		return true
	}
	return !n.invalid && !math.IsNaN(n.value) && !math.IsInf(n.value, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case !n.set:
		return []byte("null"), nil
	case n.invalid:
		return json.Marshal(n.raw)
	case math.IsNaN(n.value) || math.IsInf(n.value, 0):
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.value, 'g', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = Number{}
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*n = Num(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			*n = Number{}
			return nil
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			*n = Number{set: true, invalid: true, raw: x}
			return nil
		}
		*n = Num(f)
	default:
		*n = Number{set: true, invalid: true, raw: string(b)}
	}
	return nil
}

// resolve returns the numeric value of n, coercing invalid and non-finite
// values to 0 and reporting why.
func (n Number) resolve(field string) (float64, []CalcError) {
	if !n.set {
		return 0, nil
	}
	if n.invalid {
		return 0, []CalcError{validationError(CodeInvalidType, field,
			field+" is not a number", map[string]any{"value": n.raw})}
	}
	if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
		return 0, []CalcError{validationError(CodeNaNCoerced, field,
			field+" is not a finite number and was treated as 0", nil)}
	}
	return n.value, nil
}

// Project is the root unit of computation, as stored by the persistence layer.
type Project struct {
	ID             string           `json:"id,omitempty"`
	CustomerInfo   CustomerInfo     `json:"customerInfo"`
	Categories     []Category       `json:"categories"`
	Settings       *Settings        `json:"settings,omitempty"`
	Totals         *TotalsSnapshot  `json:"totals,omitempty"`
	PaymentDetails *PaymentSnapshot `json:"paymentDetails,omitempty"`
}

type CustomerInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	StartDate string `json:"startDate,omitempty"`
}

type Category struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	WorkItems []WorkItem `json:"workItems"`
}

// WorkItem is a billable line of work. Items saved before surfaces existed
// carry their measurement directly in Sqft/Width/Height/LinearFt/Units.
type WorkItem struct {
	Name            string    `json:"name"`
	Type            string    `json:"type,omitempty"`
	MeasurementType string    `json:"measurementType,omitempty"`
	MaterialCost    Number    `json:"materialCost"`
	LaborCost       Number    `json:"laborCost"`
	Surfaces        []Surface `json:"surfaces,omitempty"`

	Sqft     Number `json:"sqft,omitzero"`
	Width    Number `json:"width,omitzero"`
	Height   Number `json:"height,omitzero"`
	LinearFt Number `json:"linearFt,omitzero"`
	Units    Number `json:"units,omitzero"`
}

func (w WorkItem) hasLegacyMeasurement() bool {
	return w.Sqft.IsSet() || w.Width.IsSet() || w.Height.IsSet() || w.LinearFt.IsSet() || w.Units.IsSet()
}

type Surface struct {
	Name            string `json:"name,omitempty"`
	MeasurementType string `json:"measurementType,omitempty"`
	Subtype         string `json:"subtype,omitempty"`
	Sqft            Number `json:"sqft,omitzero"`
	Width           Number `json:"width,omitzero"`
	Height          Number `json:"height,omitzero"`
	LinearFt        Number `json:"linearFt,omitzero"`
	Units           Number `json:"units,omitzero"`
}

type Settings struct {
	TaxRate           Number       `json:"taxRate"`
	Markup            Number       `json:"markup"`
	WasteFactor       Number       `json:"wasteFactor"`
	WasteEntries      []WasteEntry `json:"wasteEntries,omitempty"`
	TransportationFee Number       `json:"transportationFee"`
	MiscFees          []MiscFee    `json:"miscFees,omitempty"`
	LaborDiscount     Number       `json:"laborDiscount"`
	Deposit           Number       `json:"deposit,omitzero"`
	Payments          []Payment    `json:"payments,omitempty"`
}

// Payment is one entry of the payment schedule. IsPaid is optional: an
// absent flag counts as paid only for deposit entries.
type Payment struct {
	ID     string `json:"id,omitempty"`
	Amount Number `json:"amount"`
	Date   string `json:"date,omitempty"`
	Method string `json:"method,omitempty"`
	Type   string `json:"type,omitempty"`
	IsPaid *bool  `json:"isPaid,omitempty"`
	Note   string `json:"note,omitempty"`
}

// IsDeposit reports whether the entry is tagged as a deposit, either by its
// type or by a "deposit" payment method.
func (p Payment) IsDeposit() bool {
	return strings.EqualFold(strings.TrimSpace(p.Type), "deposit") ||
		strings.EqualFold(strings.TrimSpace(p.Method), "deposit")
}

// Paid reports whether the entry counts as collected.
func (p Payment) Paid() bool {
	if p.IsPaid != nil {
		return *p.IsPaid
	}
	return p.IsDeposit()
}

type WasteEntry struct {
	SurfaceName string `json:"surfaceName"`
	SurfaceCost Number `json:"surfaceCost"`
	WasteFactor Number `json:"wasteFactor"`
}

type MiscFee struct {
	Name   string `json:"name"`
	Amount Number `json:"amount"`
}

// content is the part of a project that determines every computed figure.
type content struct {
	CustomerInfo CustomerInfo `json:"customerInfo"`
	Categories   []Category   `json:"categories"`
	Settings     *Settings    `json:"settings"`
}

// Fingerprint returns a hash of the project's computational content. Two
// projects with the same fingerprint produce the same figures; stored
// snapshots and cache entries are keyed by it.
func (p Project) Fingerprint() uint64 {
	b, err := json.Marshal(content{
		CustomerInfo: p.CustomerInfo,
		Categories:   p.Categories,
		Settings:     p.Settings,
	})
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}

// FingerprintString is Fingerprint in the hex form stored alongside snapshots.
func (p Project) FingerprintString() string {
	return strconv.FormatUint(p.Fingerprint(), 16)
}
