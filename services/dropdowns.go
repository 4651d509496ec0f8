package services

// Option is a value/label pair for form selects.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MeasurementOptions lists the measurement types offered for work items and surfaces.
var MeasurementOptions = []Option{
	{Value: string(MeasurementSingleSurface), Label: "Square feet"},
	{Value: string(MeasurementLinearFoot), Label: "Linear feet"},
	{Value: string(MeasurementByUnit), Label: "Each"},
}

// PaymentTypeOptions lists the payment schedule entry types.
var PaymentTypeOptions = []string{
	"Deposit",
	"Progress",
	"Final",
	"Change Order",
}

// PaymentMethodOptions lists the accepted payment methods.
var PaymentMethodOptions = []string{
	"Cash",
	"Check",
	"Card",
	"Bank Transfer",
	"Financing",
}

// ProjectStatusOptions lists the project lifecycle states.
var ProjectStatusOptions = []string{"estimate", "active", "completed", "on_hold"}
