package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/validation"
)

// Step is a position in the three-step checkout.
type Step int

const (
	StepContact Step = iota + 1
	StepShipping
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepShipping:
		return "shipping"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// Form holds what the customer typed across the steps.
type Form struct {
	CustomerName    string              `json:"customer_name" validate:"notblank"`
	CustomerPhone   string              `json:"customer_phone" validate:"notblank"`
	ShippingAddress string              `json:"shipping_address" validate:"notblank"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	Notes           string              `json:"notes"`
}

// NewForm returns the initial empty form.
func NewForm() Form {
	return Form{PaymentMethod: enums.DefaultPaymentMethod}
}

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerPhone:   strings.TrimSpace(f.CustomerPhone),
		ShippingAddress: strings.TrimSpace(f.ShippingAddress),
		PaymentMethod:   f.PaymentMethod,
		Notes:           strings.TrimSpace(f.Notes),
	}
}

var stepFields = map[Step][]string{
	StepContact:      {"CustomerName", "CustomerPhone"},
	StepShipping:     {"ShippingAddress"},
	StepConfirmation: {"PaymentMethod"},
}

// ValidationError names the step that failed and its offending fields.
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout %s step incomplete: %s", e.Step, strings.Join(e.Fields, ", "))
}

var validate = validation.New()

// ValidateStep checks the required fields of one step. The payment method is
// checked with the confirmation step, which Next never validates, so it only
// gates submission.
func ValidateStep(form Form, step Step) error {
	fields, ok := stepFields[step]
	if !ok {
		return nil
	}
	err := validate.StructPartial(form, fields...)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Step: step}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
	}
	return out
}
