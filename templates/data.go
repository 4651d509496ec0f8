// Package templates holds the HTML components served to browsers and HTMX
// requests. Every view has a Content component (the partial swapped in by
// HTMX) and a Page component wrapping it in the layout.
//
// Markup lives in the .templ files; run `templ generate` after editing them.
package templates

import (
	"estimator/services"
)

type ProjectListItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ClientName       string `json:"clientName"`
	Status           string `json:"status"`
	StatusBadgeClass string `json:"-"`
	StartDate        string `json:"startDate,omitempty"`
	Total            string `json:"total"`
	Paid             string `json:"paid"`
	Balance          string `json:"balance"`
	IsFullyPaid      bool   `json:"isFullyPaid"`
	OverdueCount     int    `json:"overdueCount"`
	CreatedDate      string `json:"createdDate"`
}

type ProjectListData struct {
	Items      []ProjectListItem `json:"items"`
	TotalCount int               `json:"totalCount"`
}

type EstimateData struct {
	ProjectID string
	Status    string
	Source    string
	Export    services.ExportData
	Errors    []services.CalcError
}

type PaymentsData struct {
	ProjectID string
	Name      string
	Payments  services.PaymentSummary
}

type RevenueRow struct {
	ProjectID   string                     `json:"projectId"`
	Name        string                     `json:"name"`
	Customer    string                     `json:"customer"`
	StartDate   string                     `json:"startDate,omitempty"`
	IsFullyPaid bool                       `json:"isFullyPaid"`
	Revenue     services.AdditionalRevenue `json:"revenue"`
}

type RevenueData struct {
	FilterLabel string                 `json:"filter"`
	Report      services.RevenueReport `json:"report"`
	Rows        []RevenueRow           `json:"projects"`
}

var (
	projectListHeaders = []string{"Project", "Customer", "Status", "Start", "Total", "Paid", "Balance", "Created"}
	estimateHeaders    = []string{"#", "Description", "Qty", "Unit", "Material Rate", "Material", "Labor Rate", "Labor", "Line Total"}
	ledgerHeaders      = []string{"ID", "Type", "Method", "Date", "Amount", "Note"}
	revenueHeaders     = []string{"Project", "Customer", "Start", "Paid", "Markup", "Transportation", "Revenue"}
)

func severityClass(s services.Severity) string {
	switch s {
	case services.SeverityError:
		return "alert alert-error"
	case services.SeverityWarning:
		return "alert alert-warning"
	default:
		return "alert alert-info"
	}
}

func errorPath(e services.CalcError) string {
	p, _ := e.Details["path"].(string)
	return p
}

func balanceClass(it ProjectListItem) string {
	switch {
	case it.IsFullyPaid:
		return "num paid"
	case it.OverdueCount > 0:
		return "num overdue"
	}
	return "num"
}

func summaryRowClass(l services.SummaryLine) string {
	if l.Emphasis {
		return "emphasis"
	}
	return ""
}

func estimateMeta(x services.ExportData) string {
	if x.CreatedDate == "" {
		return x.ReferenceNumber
	}
	return x.ReferenceNumber + " | " + x.CreatedDate
}

type stat struct {
	Label string
	Value string
	Class string
}

func paymentStats(p services.PaymentSummary) []stat {
	out := []stat{
		{Label: "Total project value", Value: services.FormatCurrency(p.TotalProjectValue)},
		{Label: "Deposit", Value: services.FormatCurrency(p.Deposit)},
		{Label: "Total paid", Value: services.FormatCurrency(p.TotalPaid)},
		{Label: "Remaining balance", Value: services.FormatCurrency(p.RemainingBalance)},
	}
	if credit := p.CreditBalance(); credit > 0 {
		out = append(out, stat{Label: "Credit", Value: services.FormatCurrency(credit), Class: "credit"})
	}
	return out
}
