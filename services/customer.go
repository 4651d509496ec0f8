package services

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var phonePattern = regexp.MustCompile(`^\+?\(?[0-9][0-9 ()\-.]{6,19}$`)

// ValidateCustomerInfo checks the customer block of a project. Every field
// is optional; the ones present are format-checked.
func (v *Validator) ValidateCustomerInfo(ci CustomerInfo) ValidationResult {
	var errs []CalcError

	if err := validation.Validate(strings.TrimSpace(ci.Name), validation.RuneLength(0, 200)); err != nil {
		errs = append(errs, validationError(CodeTooLong, "name", "customer name must be at most 200 characters", nil))
	}

	if email := strings.TrimSpace(ci.Email); email != "" {
		if err := validation.Validate(email, is.EmailFormat); err != nil {
			errs = append(errs, validationError(CodeInvalidType, "email", "invalid email format",
				map[string]any{"value": email}))
		}
	}
	if phone := strings.TrimSpace(ci.Phone); phone != "" {
		if err := validation.Validate(phone, validation.Match(phonePattern)); err != nil {
			errs = append(errs, validationError(CodeInvalidType, "phone", "invalid phone number",
				map[string]any{"value": phone}))
		}
	}
	if d := strings.TrimSpace(ci.StartDate); d != "" {
		if _, err := ParseDate(d); err != nil {
			errs = append(errs, validationError(CodeInvalidDate, "startDate", "start date is not a valid date",
				map[string]any{"value": d}))
		}
	}

	return ValidationResult{IsValid: !HasBlockingErrors(errs), Errors: withPath("customerInfo", errs)}
}

// ValidateProject runs every schema check over p without computing it. It is
// what the persistence layer consults before accepting a save.
func (v *Validator) ValidateProject(p Project) ValidationResult {
	res := v.ValidateCustomerInfo(p.CustomerInfo)
	errs := res.Errors
	for ci, c := range p.Categories {
		path := categoryPath(ci)
		errs = append(errs, withPath(path, v.ValidateCategory(c).Errors)...)
		for wi, w := range c.WorkItems {
			itemPath := fmt.Sprintf("%s.workItems[%d]", path, wi)
			errs = append(errs, withPath(itemPath, v.ValidateWorkItem(w).Errors)...)
			for si, s := range w.Surfaces {
				errs = append(errs, withPath(fmt.Sprintf("%s.surfaces[%d]", itemPath, si), v.ValidateSurface(s).Errors)...)
			}
		}
	}
	if p.Settings != nil {
		errs = append(errs, withPath("settings", v.ValidateSettings(*p.Settings).Errors)...)
	}
	return ValidationResult{IsValid: !HasBlockingErrors(errs), Errors: errs}
}
