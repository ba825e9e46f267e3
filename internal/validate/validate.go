// Package validate wires go-playground/validator into Echo so handlers can
// call c.Validate on bound request bodies.
package validate

import (
	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct{ v *validator.Validate }

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (val *Validator) Validate(i interface{}) error {
	return val.v.Struct(i)
}

// Describe turns a validation error into the field/message pairs returned
// to clients.  Unknown error shapes collapse to a single generic entry.
func Describe(err error) []map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []map[string]string{{"message": "invalid request body"}}
	}
	out := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, map[string]string{
			"field":   fe.Field(),
			"message": messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Valid email required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "datetime":
		return fe.Field() + " must be a valid date"
	default:
		return fe.Field() + " is invalid"
	}
}
