// Package validator wraps go-playground/validator so request DTOs report
// errors keyed by their JSON field names.
package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/plan"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", k, e.Errors[k]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func New(catalog *plan.Catalog) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("plantype", func(fl validator.FieldLevel) bool {
		_, err := catalog.Get(domain.PlanType(fl.Field().String()))
		return err == nil
	})
	_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTemplateKind(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate returns nil or a *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return &ValidationError{Errors: out}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "plantype":
		return "unknown plan type"
	case "template":
		return "unknown template"
	case "uuid", "uuid4":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}
