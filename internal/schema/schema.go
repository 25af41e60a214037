// Package schema holds the struct validation rules shared by services and HTTP handlers.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by every type in pkg/enums.
type Enum interface {
	IsValid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return f.Name
		case "":
			if form := f.Tag.Get("form"); form != "" {
				return form
			}
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		panic(err)
	}
	return v
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return false
	}
	if e, ok := field.Interface().(Enum); ok {
		return e.IsValid()
	}
	return false
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return FormatErrors(err)
	}
	return nil
}

// Var validates a single value against tag, reporting problems under field.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{field: message(errs[0])})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}

// FormatErrors converts validator output into a VALIDATION_ERROR keyed by JSON field path.
func FormatErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	fields := pkgerrors.FieldErrors{}
	for _, fe := range errs {
		fields[fieldPath(fe)] = message(fe)
	}
	return pkgerrors.Validation("validation failed", fields)
}

// fieldPath drops the root struct name from the namespace: CreateInput.groups[0].files -> groups[0].files.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return "is required"
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "enum":
		return "must be one of the allowed values"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "ne":
		return "is not allowed"
	case "unique":
		return "must not contain duplicates"
	case "gtfield", "gtefield":
		return fmt.Sprintf("must not be before %s", fe.Param())
	}
	return "is invalid"
}

func isCollection(kind reflect.Kind) bool {
	return kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map
}
