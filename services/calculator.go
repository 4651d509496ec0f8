package services

// Calculator is the entry point for callers that render many projects
// repeatedly (list views, dashboards). It serves a summary from the cache,
// then from the project's stored snapshot when that snapshot matches the
// current content and engine limits, and otherwise recomputes. All three paths yield the same
// figures for the same content.
type Calculator struct {
	engine *Engine
	cache  *TotalsCache
}

// NewCalculator returns a Calculator. cache may be nil to disable memoization.
func NewCalculator(engine *Engine, cache *TotalsCache) *Calculator {
	return &Calculator{engine: engine, cache: cache}
}

func (c *Calculator) Engine() *Engine { return c.engine }

// Summarize returns the summary of p.
func (c *Calculator) Summarize(p Project) ProjectSummary {
	key := c.engine.Fingerprint(p)

	if c.cache != nil {
		if s, ok := c.cache.Get(key); ok {
			s.ProjectID = p.ID
			s.Source = SourceCache
			return c.refresh(s)
		}
	}

	s, ok := c.engine.snapshotSummary(p, key)
	if !ok {
		s = c.engine.Summarize(p)
		if p.Totals != nil || p.PaymentDetails != nil {
			s.Costs.Errors = append(s.Costs.Errors, migrationNotice(CodeStaleSnapshot, "totals",
				"stored totals did not match the project and were recomputed", nil))
		}
	}
	if c.cache != nil {
		c.cache.Put(key, s)
	}
	return c.refresh(s)
}

// refresh recomputes the time-dependent and derived parts of s: the overdue
// list and the gated revenue.
func (c *Calculator) refresh(s ProjectSummary) ProjectSummary {
	var errs []CalcError
	s.Payments.OverduePayments, errs = overdueEntries(s.Payments.PendingPayments, c.engine.cfg.Now(), nil)
	s.Payments.Errors = appendMissing(s.Payments.Errors, errs)
	s.Revenue = RecognizeRevenue(s.Costs, s.Payments)
	return s
}

// appendMissing appends the errors of extra not already present in errs.
func appendMissing(errs, extra []CalcError) []CalcError {
	for _, e := range extra {
		found := false
		for _, have := range errs {
			if have.Code == e.Code && have.Message == e.Message && have.Details["id"] == e.Details["id"] &&
				have.Details["value"] == e.Details["value"] {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, e)
		}
	}
	return errs
}

// SummarizeAll summarizes projects in order.
func (c *Calculator) SummarizeAll(projects []Project) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, c.Summarize(p))
	}
	return out
}

// AdditionalRevenue aggregates gated revenue over projects through the
// same aggregation the engine uses.
func (c *Calculator) AdditionalRevenue(projects []Project, filter RevenueFilter) RevenueReport {
	report := AggregateRevenue(c.SummarizeAll(projects), filter)
	if err := filter.Validate(); err != nil {
		report.Errors = append(report.Errors, validationError(CodeInvalidFilter, "filter", err.Error(), nil))
	}
	return report
}

// Invalidate drops any cached summary for p's current content.
func (c *Calculator) Invalidate(p Project) {
	if c.cache != nil {
		c.cache.Invalidate(c.engine.Fingerprint(p))
	}
}
