package settings

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/GoCurtain/GoCurtain/internal/options"
)

// ErrInvalidBackground is returned when the submitted background is not a
// #rrggbb color. The stored background is kept.
var ErrInvalidBackground = errors.New("background must be a color like #1e73be")

var validate = validator.New() //nolint:gochecknoglobals

// RoleReplacer replaces the set of roles allowed to toggle the curtain.
type RoleReplacer interface {
	Replace(roles []string) error
}

// RoleReplacerFunc adapts a function to RoleReplacer.
type RoleReplacerFunc func(roles []string) error

// Replace calls f.
func (f RoleReplacerFunc) Replace(roles []string) error {
	return f(roles)
}

// Sanitize merges a form submission over the stored record.
//
// Roles replace the grants. Other known fields are stored as text, numeric
// values in their integer form. Absent fields keep their stored value and
// unknown fields are ignored, so the mode cannot be changed here. An invalid
// background keeps the stored one and ErrInvalidBackground is returned along
// with the otherwise sanitized record.
func Sanitize(old options.Record, submitted map[string][]string, roles RoleReplacer) (options.Record, error) {
	rec := old

	var invalid error

	for _, field := range Fields() {
		values, ok := submitted[field.Name]
		if !ok {
			continue
		}

		if field.Name == FieldRoles {
			if err := roles.Replace(values); err != nil {
				return old, fmt.Errorf("failed to replace roles: %w", err)
			}

			continue
		}

		value := ""
		if len(values) > 0 {
			value = values[len(values)-1]
		}

		if options.IsNumeric(value) {
			value = strconv.Itoa(options.ParseInt(value))
		}

		switch field.Name {
		case FieldBackground:
			if err := validate.Var(value, "hexcolor,len=7"); err != nil {
				invalid = fmt.Errorf("%w: %q", ErrInvalidBackground, value)
				continue
			}

			rec.Background = value
		case FieldHeading:
			rec.Heading = value
		case FieldDescription:
			rec.Description = value
		}
	}

	return rec, invalid
}
