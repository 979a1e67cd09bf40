package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ParkingSlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewParkingSlotValidator(log *logger.Logger) *ParkingSlotValidator {
	v := validator.New()

	if err := v.RegisterValidation("decimal", validateDecimalString); err != nil {
		log.Fatal("Failed to register 'decimal' validator", "error", err)
	}

	return &ParkingSlotValidator{
		validate: v,
		logger:   log,
	}
}

// validateDecimalString accepts values that parse as exact decimal numbers,
// keeping prices out of float arithmetic.
func validateDecimalString(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !value.IsNegative()
}

func (v *ParkingSlotValidator) Validate(slot *model.ParkingSlot) error {
	if err := v.validate.Struct(slot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	for i, restriction := range slot.Restrictions {
		if !restriction.Until.After(restriction.From) {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("Restrictions[%d].Until", i),
					Message: "until must be after from",
				},
			}
		}
	}

	return nil
}

func (v *ParkingSlotValidator) ValidateUpdate(update *model.ParkingSlotUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ParkingSlotValidator) ValidateStatusUpdate(update *model.SlotStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "decimal":
			message = fmt.Sprintf("%s must be a non-negative decimal number", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
