package validation

import (
	"fmt"
	"strings"
)

func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s must have an exact length", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to the minimum", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than the minimum", field)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to the maximum", field)
	case "lt":
		return fmt.Sprintf("%s must be less than the maximum", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "alpha":
		return fmt.Sprintf("%s may only contain letters", field)
	case "boolean":
		return fmt.Sprintf("%s must be true or false", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with author, genre or price", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, tag)
	}
}

// Messages turns validator field errors into readable messages, preferring
// the field-specific wording.
func Messages(fields []FieldError) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if custom := CustomMessage(f.Field()); custom != nil {
			if msg, ok := custom[f.Tag()]; ok {
				out = append(out, msg)
				continue
			}
		}
		out = append(out, DefaultMessage(f.Field(), f.Tag()))
	}
	return out
}

// FieldError is the subset of validator.FieldError the messages need.
type FieldError interface {
	Field() string
	Tag() string
}
