package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

type optionsResponse struct {
	MeasurementTypes []services.Option `json:"measurementTypes"`
	PaymentTypes     []string          `json:"paymentTypes"`
	PaymentMethods   []string          `json:"paymentMethods"`
	ProjectStatuses  []string          `json:"projectStatuses"`
}

// HandleOptions returns the values offered by the estimate form selects.
func HandleOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, optionsResponse{
			MeasurementTypes: services.MeasurementOptions,
			PaymentTypes:     services.PaymentTypeOptions,
			PaymentMethods:   services.PaymentMethodOptions,
			ProjectStatuses:  services.ProjectStatusOptions,
		})
	}
}
