package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
)

var entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,35}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("entityid", func(fl validator.FieldLevel) bool {
		return entityIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register entityid validation: %v", err))
	}

	return v
}

// ValidEntityID reports whether id is acceptable as a caller-supplied identifier.
func ValidEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}

// ValidateVar checks a single value against validator tags and reports
// failures against field.
func ValidateVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return newFieldError(field, describe(verrs[0]))
		}
		return err
	}
	return nil
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return newFieldError(verrs[0].Field(), describe(verrs[0]))
		}
		return err
	}
	return nil
}

func newFieldError(field, message string) error {
	return apierrors.NewValidationError(field, message)
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "entityid":
		return "must be 1-36 letters, digits, '-' or '_'"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
