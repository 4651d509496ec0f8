package services

import (
	"math"
	"strings"
	"time"
)

// Summary sources.
const (
	SourceComputed = "computed"
	SourceSnapshot = "snapshot"
	SourceCache    = "cache"
)

// CostSummary is the result of ComputeCosts. LaborCost is after the labor
// discount.
type CostSummary struct {
	MaterialCost            float64         `json:"materialCost"`
	LaborCost               float64         `json:"laborCost"`
	LaborCostBeforeDiscount float64         `json:"laborCostBeforeDiscount"`
	LaborDiscountAmount     float64         `json:"laborDiscountAmount"`
	Waste                   float64         `json:"waste"`
	Tax                     float64         `json:"tax"`
	Markup                  float64         `json:"markup"`
	Transportation          float64         `json:"transportation"`
	MiscFeesTotal           float64         `json:"miscFeesTotal"`
	Subtotal                float64         `json:"subtotal"`
	TotalProjectValue       float64         `json:"totalProjectValue"`
	MaterialBreakdown       []BreakdownLine `json:"materialBreakdown"`
	LaborBreakdown          []BreakdownLine `json:"laborBreakdown"`
	Errors                  []CalcError     `json:"errors,omitempty"`
}

// Rounded returns a copy with every money figure rounded to cents.
func (c CostSummary) Rounded() CostSummary {
	out := c.clone()
	for _, f := range []*float64{
		&out.MaterialCost, &out.LaborCost, &out.LaborCostBeforeDiscount, &out.LaborDiscountAmount,
		&out.Waste, &out.Tax, &out.Markup, &out.Transportation, &out.MiscFeesTotal,
		&out.Subtotal, &out.TotalProjectValue,
	} {
		*f = RoundCurrency(*f)
	}
	for i := range out.MaterialBreakdown {
		out.MaterialBreakdown[i].Total = RoundCurrency(out.MaterialBreakdown[i].Total)
	}
	for i := range out.LaborBreakdown {
		out.LaborBreakdown[i].Total = RoundCurrency(out.LaborBreakdown[i].Total)
	}
	return out
}

func (c CostSummary) clone() CostSummary {
	c.MaterialBreakdown = append([]BreakdownLine{}, c.MaterialBreakdown...)
	c.LaborBreakdown = append([]BreakdownLine{}, c.LaborBreakdown...)
	c.Errors = cloneErrors(c.Errors)
	return c
}

func (c CostSummary) finite() bool {
	for _, v := range []float64{
		c.MaterialCost, c.LaborCost, c.LaborCostBeforeDiscount, c.LaborDiscountAmount,
		c.Waste, c.Tax, c.Markup, c.Transportation, c.MiscFeesTotal, c.Subtotal, c.TotalProjectValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Rounded returns a copy with every money figure rounded to cents.
func (p PaymentSummary) Rounded() PaymentSummary {
	out := p.clone()
	out.TotalProjectValue = RoundCurrency(out.TotalProjectValue)
	out.Deposit = RoundCurrency(out.Deposit)
	out.TotalPaid = RoundCurrency(out.TotalPaid)
	out.RemainingBalance = RoundCurrency(out.RemainingBalance)
	return out
}

func (p PaymentSummary) clone() PaymentSummary {
	p.PaidPayments = append([]LedgerEntry{}, p.PaidPayments...)
	p.PendingPayments = append([]LedgerEntry{}, p.PendingPayments...)
	p.OverduePayments = append([]LedgerEntry{}, p.OverduePayments...)
	p.Errors = cloneErrors(p.Errors)
	return p
}

// Rounded returns a copy with every money figure rounded to cents.
func (r AdditionalRevenue) Rounded() AdditionalRevenue {
	r.Markup = RoundCurrency(r.Markup)
	r.Transportation = RoundCurrency(r.Transportation)
	r.Total = RoundCurrency(r.Total)
	return r
}

func cloneErrors(errs []CalcError) []CalcError {
	if errs == nil {
		return nil
	}
	out := make([]CalcError, len(errs))
	for i, e := range errs {
		if e.Details != nil {
			d := make(map[string]any, len(e.Details))
			for k, v := range e.Details {
				d[k] = v
			}
			e.Details = d
		}
		out[i] = e
	}
	return out
}

// ProjectSummary bundles everything list and dashboard views need about one
// project.
type ProjectSummary struct {
	ProjectID   string            `json:"projectId,omitempty"`
	Fingerprint string            `json:"fingerprint"`
	StartDate   string            `json:"startDate,omitempty"`
	Source      string            `json:"source"`
	Costs       CostSummary       `json:"costs"`
	Payments    PaymentSummary    `json:"payments"`
	Revenue     AdditionalRevenue `json:"revenue"`
}

func (s ProjectSummary) clone() ProjectSummary {
	s.Costs = s.Costs.clone()
	s.Payments = s.Payments.clone()
	return s
}

func (s ProjectSummary) startDate() (time.Time, bool) {
	if strings.TrimSpace(s.StartDate) == "" {
		return time.Time{}, false
	}
	t, err := ParseDate(s.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Errors returns every error of the summary.
func (s ProjectSummary) Errors() []CalcError {
	var out []CalcError
	out = append(out, s.Costs.Errors...)
	out = append(out, s.Payments.Errors...)
	return out
}

// TotalsSnapshot is the stored copy of a prior ComputeCosts result.
type TotalsSnapshot struct {
	Fingerprint string `json:"fingerprint"`
	CostSummary
}

// PaymentSnapshot is the stored copy of a prior ComputePayments result.
type PaymentSnapshot struct {
	Fingerprint string `json:"fingerprint"`
	PaymentSummary
}

// NewSnapshots builds the snapshots a persistence layer stores with p.
func (e *Engine) NewSnapshots(p Project) (*TotalsSnapshot, *PaymentSnapshot) {
	s := e.Summarize(p)
	return &TotalsSnapshot{Fingerprint: s.Fingerprint, CostSummary: s.Costs},
		&PaymentSnapshot{Fingerprint: s.Fingerprint, PaymentSummary: s.Payments}
}

// snapshotSummary returns the summary held by p's stored snapshots when
// they are trustworthy: both present, taken from the same content and limits
// as fingerprint, finite, and internally consistent. Cost totals come from
// the snapshot. Payments are reconciled again from p's settings and must
// agree with the stored payment snapshot.
func (e *Engine) snapshotSummary(p Project, fingerprint string) (ProjectSummary, bool) {
	t, pd := p.Totals, p.PaymentDetails
	if t == nil || pd == nil {
		return ProjectSummary{}, false
	}
	if t.Fingerprint == "" || t.Fingerprint != fingerprint || pd.Fingerprint != fingerprint {
		return ProjectSummary{}, false
	}
	if !t.CostSummary.finite() {
		return ProjectSummary{}, false
	}
	sum := t.Subtotal + t.Tax + t.Markup + t.Transportation + t.MiscFeesTotal
	if math.Abs(sum-t.TotalProjectValue) > consistencyEpsilon {
		return ProjectSummary{}, false
	}
	if pd.TotalProjectValue != t.TotalProjectValue {
		return ProjectSummary{}, false
	}

	np, _ := NormalizeProject(p)
	payments := e.ReconcilePayments(t.TotalProjectValue, np.Settings, e.cfg.Now())
	if !samePayments(pd.PaymentSummary, payments) {
		return ProjectSummary{}, false
	}

	s := ProjectSummary{
		ProjectID:   p.ID,
		Fingerprint: fingerprint,
		StartDate:   p.CustomerInfo.StartDate,
		Source:      SourceSnapshot,
		Costs:       t.CostSummary,
		Payments:    payments,
	}
	return s.clone(), true
}

// samePayments reports whether a stored payment summary matches a fresh
// reconciliation of the same ledger.
func samePayments(stored, fresh PaymentSummary) bool {
	if stored.IsFullyPaid != fresh.IsFullyPaid || stored.DepositSource != fresh.DepositSource {
		return false
	}
	if len(stored.PaidPayments) != len(fresh.PaidPayments) ||
		len(stored.PendingPayments) != len(fresh.PendingPayments) {
		return false
	}
	for _, f := range [][2]float64{
		{stored.Deposit, fresh.Deposit},
		{stored.TotalPaid, fresh.TotalPaid},
		{stored.RemainingBalance, fresh.RemainingBalance},
	} {
		if math.IsNaN(f[0]) || math.Abs(f[0]-f[1]) > consistencyEpsilon {
			return false
		}
	}
	return true
}
