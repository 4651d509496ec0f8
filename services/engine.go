package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Default engine limits.
const (
	DefaultMaxTaxRate         = 0.5
	DefaultMaxMarkupRate      = 5.0
	DefaultMaxWasteFactor     = 1.0
	DefaultMaxUnits           = 1_000_000
	DefaultMaxSurfaceQuantity = 100_000
	DefaultMaxRate            = 100_000
	DefaultPaidTolerance      = 0.01
)

// EngineConfig holds the limits the engine validates and clamps against.
// Zero values fall back to the defaults above.
type EngineConfig struct {
	MaxTaxRate         float64
	MaxMarkupRate      float64
	MaxWasteFactor     float64
	MaxUnits           float64
	MaxSurfaceQuantity float64
	MaxRate            float64
	// PaidTolerance is the remaining balance at or below which a project
	// counts as fully paid.
	PaidTolerance float64
	// Now is the clock used for overdue checks. Defaults to time.Now.
	Now func() time.Time
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxTaxRate:         DefaultMaxTaxRate,
		MaxMarkupRate:      DefaultMaxMarkupRate,
		MaxWasteFactor:     DefaultMaxWasteFactor,
		MaxUnits:           DefaultMaxUnits,
		MaxSurfaceQuantity: DefaultMaxSurfaceQuantity,
		MaxRate:            DefaultMaxRate,
		PaidTolerance:      DefaultPaidTolerance,
		Now:                time.Now,
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.MaxTaxRate <= 0 {
		c.MaxTaxRate = d.MaxTaxRate
	}
	if c.MaxMarkupRate <= 0 {
		c.MaxMarkupRate = d.MaxMarkupRate
	}
	if c.MaxWasteFactor <= 0 {
		c.MaxWasteFactor = d.MaxWasteFactor
	}
	if c.MaxUnits <= 0 {
		c.MaxUnits = d.MaxUnits
	}
	if c.MaxSurfaceQuantity <= 0 {
		c.MaxSurfaceQuantity = d.MaxSurfaceQuantity
	}
	if c.MaxRate <= 0 {
		c.MaxRate = d.MaxRate
	}
	if c.PaidTolerance < 0 {
		c.PaidTolerance = d.PaidTolerance
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}

// Engine computes estimate figures from Project snapshots. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg       EngineConfig
	configKey uint64
	validator *Validator
}

func NewEngine(cfg EngineConfig) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:       cfg,
		configKey: cfg.key(),
		validator: NewValidator(cfg),
	}
}

// key hashes the limits that change computed figures. The clock is left out.
func (c EngineConfig) key() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%g|%g|%g|%g|%g|%g|%g",
		c.MaxTaxRate, c.MaxMarkupRate, c.MaxWasteFactor, c.MaxUnits,
		c.MaxSurfaceQuantity, c.MaxRate, c.PaidTolerance))
}

// ConfigKey identifies the engine limits in effect.
func (e *Engine) ConfigKey() uint64 { return e.configKey }

// Fingerprint keys stored snapshots and cache entries for p. It changes when
// either p's content or the engine limits change.
func (e *Engine) Fingerprint(p Project) string {
	return strconv.FormatUint(xxhash.Sum64String(
		strconv.FormatUint(p.Fingerprint(), 16)+":"+strconv.FormatUint(e.configKey, 16)), 16)
}

func (e *Engine) Config() EngineConfig { return e.cfg }

func (e *Engine) Validator() *Validator { return e.validator }

// ComputeCosts runs normalization, unit resolution, cost aggregation and the
// adjustment pipeline for p.
func (e *Engine) ComputeCosts(p Project) CostSummary {
	np, errs := NormalizeProject(p)
	return e.costsFor(p, np, errs)
}

func (e *Engine) costsFor(p Project, np NormalizedProject, errs []CalcError) CostSummary {
	for i, c := range p.Categories {
		res := e.validator.ValidateCategory(c)
		errs = append(errs, withPath(categoryPath(i), res.Errors)...)
	}
	switch {
	case len(p.Categories) == 0:
		errs = append(errs, validationWarning(CodeMissingCategories, "categories",
			"project has no categories; only fees were applied", nil))
	case len(np.Items) == 0:
		errs = append(errs, validationWarning(CodeNoWorkItems, "categories",
			"project has no work items; only fees were applied", nil))
	}
	if !np.HasSettings {
		errs = append(errs, validationWarning(CodeMissingSettings, "settings",
			"project has no settings; no adjustments were applied", nil))
	}

	agg := e.AggregateCosts(np.Items)
	adj := e.ApplyAdjustments(agg.MaterialCost, agg.LaborCost, np.Settings)

	errs = append(errs, agg.Errors...)
	errs = append(errs, adj.Errors...)

	return CostSummary{
		MaterialCost:            adj.MaterialCost,
		LaborCost:               adj.LaborCost,
		LaborCostBeforeDiscount: adj.LaborCostBeforeDiscount,
		LaborDiscountAmount:     adj.LaborDiscountAmount,
		Waste:                   adj.Waste,
		Tax:                     adj.Tax,
		Markup:                  adj.Markup,
		Transportation:          adj.Transportation,
		MiscFeesTotal:           adj.MiscFeesTotal,
		Subtotal:                adj.Subtotal,
		TotalProjectValue:       adj.TotalProjectValue,
		MaterialBreakdown:       agg.MaterialBreakdown,
		LaborBreakdown:          agg.LaborBreakdown,
		Errors:                  errs,
	}
}

// ComputePayments reconciles p's payments against its freshly computed
// total project value.
func (e *Engine) ComputePayments(p Project) PaymentSummary {
	np, errs := NormalizeProject(p)
	costs := e.costsFor(p, np, errs)
	return e.ReconcilePayments(costs.TotalProjectValue, np.Settings, e.cfg.Now())
}

// Summarize computes costs, payments and gated revenue for p in one pass.
func (e *Engine) Summarize(p Project) ProjectSummary {
	np, errs := NormalizeProject(p)
	costs := e.costsFor(p, np, errs)
	payments := e.ReconcilePayments(costs.TotalProjectValue, np.Settings, e.cfg.Now())
	return ProjectSummary{
		ProjectID:   p.ID,
		Fingerprint: e.Fingerprint(p),
		StartDate:   p.CustomerInfo.StartDate,
		Source:      SourceComputed,
		Costs:       costs,
		Payments:    payments,
		Revenue:     RecognizeRevenue(costs, payments),
	}
}
