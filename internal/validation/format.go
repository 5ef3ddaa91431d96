// Package validation formats the accepted values of string enums for
// error and help messages.
package validation

import (
	"fmt"
	"strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValue wraps base with the rejected value and the accepted ones.
func InvalidValue[T ~string](base error, value string, valid []T) error {
	return fmt.Errorf("%w %q: must be %s", base, value, FormatValidValues(valid))
}
