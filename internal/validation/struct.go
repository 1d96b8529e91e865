package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Struct applies the `validate` tags of v and returns one Violation per failed
// field, in field order.
func Struct(v any) []Violation {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Field: "", Reason: ReasonInvalidFormat, Message: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toViolation(fe))
	}
	return out
}

func toViolation(fe validator.FieldError) Violation {
	field := strings.ToLower(fe.Field())
	label := strings.ToUpper(field[:1]) + field[1:]
	switch fe.Tag() {
	case "max":
		return Violation{
			Field:   field,
			Reason:  ReasonTooLong,
			Message: fmt.Sprintf("%s must be at most %s characters.", label, fe.Param()),
		}
	case "required":
		return Violation{Field: field, Reason: ReasonRequired, Message: fmt.Sprintf("%s is required.", label)}
	default:
		return Violation{Field: field, Reason: ReasonInvalidFormat, Message: fmt.Sprintf("Invalid %s.", field)}
	}
}

// StructMessages is Struct reduced to messages.
func StructMessages(v any) []string {
	violations := Struct(v)
	out := make([]string, 0, len(violations))
	for _, violation := range violations {
		out = append(out, violation.Message)
	}
	return out
}
