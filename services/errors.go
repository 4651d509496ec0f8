package services

import "fmt"

// ErrorCategory classifies a CalcError.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "VALIDATION"
	CategoryCalculation   ErrorCategory = "CALCULATION"
	CategoryDataMigration ErrorCategory = "DATA_MIGRATION"
)

// Severity tells a consumer how prominently to display a CalcError.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Error codes reported by the calculation engine.
const (
	CodeRequired               = "REQUIRED"
	CodeInvalidType            = "INVALID_TYPE"
	CodeBelowMin               = "BELOW_MIN"
	CodeAboveMax               = "ABOVE_MAX"
	CodeDecimalNotAllowed      = "DECIMAL_NOT_ALLOWED"
	CodeTooShort               = "TOO_SHORT"
	CodeTooLong                = "TOO_LONG"
	CodeNaNCoerced             = "NAN_COERCED"
	CodeUnitsClamped           = "UNITS_CLAMPED"
	CodeUnknownMeasurementType = "UNKNOWN_MEASUREMENT_TYPE"
	CodeLegacyShape            = "LEGACY_SHAPE"
	CodeLegacyDeposit          = "LEGACY_DEPOSIT_IGNORED"
	CodeMissingSettings        = "MISSING_SETTINGS"
	CodeMissingCategories      = "MISSING_CATEGORIES"
	CodeNoWorkItems            = "NO_WORK_ITEMS"
	CodeInvalidDate            = "INVALID_DATE"
	CodeInconsistentTotals     = "INCONSISTENT_TOTALS"
	CodeInvalidFilter          = "INVALID_FILTER"
	CodeStaleSnapshot          = "STALE_SNAPSHOT"
)

// CalcError is a structured, non-fatal problem found while computing a
// project. It is returned inline next to a best-effort result.
type CalcError struct {
	Message  string         `json:"message"`
	Code     string         `json:"code"`
	Category ErrorCategory  `json:"category"`
	Severity Severity       `json:"severity"`
	Details  map[string]any `json:"details,omitempty"`
}

func (e CalcError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Category, e.Code, e.Message)
}

func validationError(code, field, message string, details map[string]any) CalcError {
	return newCalcError(CategoryValidation, SeverityError, code, field, message, details)
}

func validationWarning(code, field, message string, details map[string]any) CalcError {
	return newCalcError(CategoryValidation, SeverityWarning, code, field, message, details)
}

func migrationNotice(code, field, message string, details map[string]any) CalcError {
	return newCalcError(CategoryDataMigration, SeverityInfo, code, field, message, details)
}

func newCalcError(cat ErrorCategory, sev Severity, code, field, message string, details map[string]any) CalcError {
	d := make(map[string]any, len(details)+1)
	for k, v := range details {
		d[k] = v
	}
	if field != "" {
		d["field"] = field
	}
	return CalcError{
		Message:  message,
		Code:     code,
		Category: cat,
		Severity: sev,
		Details:  d,
	}
}

// withPath returns copies of errs with a "path" detail prefixed by prefix,
// e.g. "categories[0].workItems[2]".
func withPath(prefix string, errs []CalcError) []CalcError {
	if len(errs) == 0 {
		return nil
	}
	if prefix == "" {
		return errs
	}
	out := make([]CalcError, len(errs))
	for i, e := range errs {
		d := make(map[string]any, len(e.Details)+1)
		for k, v := range e.Details {
			d[k] = v
		}
		if p, ok := d["path"].(string); ok && p != "" {
			d["path"] = prefix + "." + p
		} else {
			d["path"] = prefix
		}
		e.Details = d
		out[i] = e
	}
	return out
}

// HasBlockingErrors reports whether any error has severity "error".
func HasBlockingErrors(errs []CalcError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorsByCode filters errs to the given code.
func ErrorsByCode(errs []CalcError, code string) []CalcError {
	var out []CalcError
	for _, e := range errs {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}
