package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// AdditionalRevenue is markup plus transportation revenue, recognized only
// for fully paid projects.
type AdditionalRevenue struct {
	Markup         float64 `json:"markup"`
	Transportation float64 `json:"transportation"`
	Total          float64 `json:"total"`
	ProjectCount   int     `json:"projectCount"`
}

// RevenueReport is an aggregate over many projects.
type RevenueReport struct {
	AdditionalRevenue
	// Considered counts the projects that passed the filter, paid or not.
	Considered int         `json:"considered"`
	Errors     []CalcError `json:"errors,omitempty"`
}

// RecognizeRevenue gates a project's markup and transportation on its
// payment status. An unpaid project always yields zero.
func RecognizeRevenue(costs CostSummary, payments PaymentSummary) AdditionalRevenue {
	if !payments.IsFullyPaid {
		return AdditionalRevenue{}
	}
	return AdditionalRevenue{
		Markup:         costs.Markup,
		Transportation: costs.Transportation,
		Total:          costs.Markup + costs.Transportation,
		ProjectCount:   1,
	}
}

// RevenueFilter restricts an aggregate by project start date. The zero value
// matches every project. Year takes precedence over Start/End; either end
// of the range may be left open.
type RevenueFilter struct {
	Year  int
	Start time.Time
	End   time.Time
}

// IsAll reports whether the filter matches every project.
func (f RevenueFilter) IsAll() bool {
	return f.Year == 0 && f.Start.IsZero() && f.End.IsZero()
}

// Validate reports an inverted date range.
func (f RevenueFilter) Validate() error {
	if f.Year == 0 && !f.Start.IsZero() && !f.End.IsZero() && startOfDay(f.End).Before(startOfDay(f.Start)) {
		return fmt.Errorf("revenue filter: end %s is before start %s",
			f.End.Format(time.DateOnly), f.Start.Format(time.DateOnly))
	}
	return nil
}

// Matches reports whether a project with the given start date passes the
// filter. Projects without a start date only pass the match-all filter.
func (f RevenueFilter) Matches(start time.Time, hasStart bool) bool {
	if f.IsAll() {
		return true
	}
	if !hasStart {
		return false
	}
	if f.Year != 0 {
		return start.Year() == f.Year
	}
	day := startOfDay(start)
	if !f.Start.IsZero() && day.Before(startOfDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && day.After(startOfDay(f.End)) {
		return false
	}
	return true
}

// MatchesSummary reports whether the project behind s passes the filter.
func (f RevenueFilter) MatchesSummary(s ProjectSummary) bool {
	start, hasStart := s.startDate()
	return f.Matches(start, hasStart)
}

// Label describes the filter for report headings.
func (f RevenueFilter) Label() string {
	switch {
	case f.Year != 0:
		return fmt.Sprintf("Year %d", f.Year)
	case !f.Start.IsZero() && !f.End.IsZero():
		return f.Start.Format(time.DateOnly) + " to " + f.End.Format(time.DateOnly)
	case !f.Start.IsZero():
		return "From " + f.Start.Format(time.DateOnly)
	case !f.End.IsZero():
		return "Through " + f.End.Format(time.DateOnly)
	}
	return "All projects"
}

// ParseRevenueFilter builds a filter from user input. A non-empty year wins
// over the date range; empty values leave that bound open.
func ParseRevenueFilter(year, start, end string) (RevenueFilter, error) {
	var f RevenueFilter
	if y := strings.TrimSpace(year); y != "" {
		n, err := cast.ToIntE(y)
		if err != nil || n < 1900 || n > 9999 {
			return RevenueFilter{}, fmt.Errorf("invalid year %q", y)
		}
		f.Year = n
		return f, nil
	}
	for _, b := range []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"start", start, &f.Start},
		{"end", end, &f.End},
	} {
		v := strings.TrimSpace(b.value)
		if v == "" {
			continue
		}
		t, err := ParseDate(v)
		if err != nil {
			return RevenueFilter{}, fmt.Errorf("invalid %s date %q", b.name, v)
		}
		*b.dst = t
	}
	if err := f.Validate(); err != nil {
		return RevenueFilter{}, err
	}
	return f, nil
}

// AggregateRevenue sums the gated revenue of summaries that pass filter.
// Every consumer that needs additional revenue across projects goes through
// here.
func AggregateRevenue(summaries []ProjectSummary, filter RevenueFilter) RevenueReport {
	var out RevenueReport
	for _, s := range summaries {
		if !filter.MatchesSummary(s) {
			continue
		}
		out.Considered++
		r := RecognizeRevenue(s.Costs, s.Payments)
		out.Markup += r.Markup
		out.Transportation += r.Transportation
		out.Total += r.Total
		out.ProjectCount += r.ProjectCount
	}
	return out
}

// ComputeAdditionalRevenue aggregates gated revenue over projects.
func (e *Engine) ComputeAdditionalRevenue(projects []Project, filter RevenueFilter) RevenueReport {
	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, e.Summarize(p))
	}
	report := AggregateRevenue(summaries, filter)
	if err := filter.Validate(); err != nil {
		report.Errors = append(report.Errors, validationError(CodeInvalidFilter, "filter", err.Error(), nil))
	}
	return report
}

// ProjectAdditionalRevenue is the gated revenue of a single project.
func (e *Engine) ProjectAdditionalRevenue(p Project) AdditionalRevenue {
	s := e.Summarize(p)
	return s.Revenue
}
