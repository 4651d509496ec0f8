package handlers

import (
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
	"estimator/templates"
)

type paymentsResponse struct {
	ProjectID     string                  `json:"projectId"`
	Name          string                  `json:"name"`
	Payments      services.PaymentSummary `json:"payments"`
	CreditBalance float64                 `json:"creditBalance"`
}

func newPaymentsResponse(rec *core.Record, s services.ProjectSummary) paymentsResponse {
	return paymentsResponse{
		ProjectID:     rec.Id,
		Name:          rec.GetString("name"),
		Payments:      s.Payments.Rounded(),
		CreditBalance: services.RoundCurrency(s.Payments.CreditBalance()),
	}
}

func renderPayments(e *core.RequestEvent, rec *core.Record, s services.ProjectSummary) error {
	data := templates.PaymentsData{
		ProjectID: rec.Id,
		Name:      rec.GetString("name"),
		Payments:  s.Payments,
	}
	return respond(e, newPaymentsResponse(rec, s),
		func() templ.Component { return templates.PaymentsContent(data) },
		func() templ.Component { return templates.PaymentsPage(data) },
	)
}

// HandlePayments returns the reconciled payment ledger of a project.
func HandlePayments(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "payments", err)
		}
		return renderPayments(e, rec, calc.Summarize(p))
	}
}

type paymentPayload struct {
	Amount services.Number `json:"amount"`
	Date   string          `json:"date"`
	Method string          `json:"method"`
	Type   string          `json:"type"`
	IsPaid *bool           `json:"isPaid"`
	Note   string          `json:"note"`
}

// HandlePaymentAdd appends a payment to a project's schedule under the next
// PAY-YYYY-NNN number.
func HandlePaymentAdd(app *pocketbase.PocketBase, calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, p, err := loadProject(app, e)
		if err != nil {
			return projectLoadError(e, "payment_add", err)
		}

		var pl paymentPayload
		if err := e.BindBody(&pl); err != nil {
			return respondError(e, http.StatusBadRequest, "Invalid payment data")
		}

		fields := make(map[string]string)
		res := calc.Engine().Validator().Validate(services.EntityPayment, map[string]any{
			"amount": pl.Amount,
			"date":   pl.Date,
			"method": pl.Method,
			"type":   pl.Type,
		})
		for _, ce := range res.Errors {
			if f, ok := ce.Details["field"].(string); ok && ce.Severity == services.SeverityError {
				fields[f] = ce.Message
			}
		}
		pl.Type = strings.TrimSpace(pl.Type)
		if pl.Type == "" {
			pl.Type = "Progress"
		} else if !slices.Contains(services.PaymentTypeOptions, pl.Type) {
			fields["type"] = "Unknown payment type"
		}
		if d := strings.TrimSpace(pl.Date); d != "" {
			if _, err := services.ParseDate(d); err != nil {
				fields["date"] = "Invalid date"
			}
		}
		if len(fields) > 0 {
			return rejectPayload(e, &validationResponse{
				Message: "Please fix the errors below",
				Fields:  fields,
			})
		}

		settings := services.Settings{}
		if p.Settings != nil {
			settings = *p.Settings
		}
		settings.Payments = append(slices.Clone(settings.Payments), services.Payment{
			ID:     services.NextPaymentNumber(settings.Payments, time.Now()),
			Amount: pl.Amount,
			Date:   strings.TrimSpace(pl.Date),
			Method: strings.TrimSpace(pl.Method),
			Type:   pl.Type,
			IsPaid: pl.IsPaid,
			Note:   strings.TrimSpace(pl.Note),
		})
		old := p
		p.Settings = &settings

		if err := collections.SaveProject(app, rec, p, calc.Engine()); err != nil {
			log.Printf("payment_add: could not save project %s: %v", rec.Id, err)
			return respondError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		calc.Invalidate(old)

		SetToast(e, "success", "Payment recorded")
		if !isHTMX(e) && !wantsHTML(e) {
			return e.JSON(http.StatusCreated, newPaymentsResponse(rec, calc.Summarize(p)))
		}
		return renderPayments(e, rec, calc.Summarize(p))
	}
}
