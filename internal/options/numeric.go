package options

import (
	"math"
	"strconv"
	"strings"
)

const space = " \t\n\r\v\f"

// IsNumeric reports whether s reads as a decimal number, e.g. "1", " 2.7 "
// or "1e3". Hex, octal and binary forms are not numbers here.
func IsNumeric(s string) bool {
	s = strings.Trim(s, space)
	if s == "" {
		return false
	}

	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsAny(digits[1:2], "xXoObB") {
		return false
	}

	if strings.Contains(s, "_") {
		return false
	}

	f, err := strconv.ParseFloat(s, 64)

	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseInt converts s to an integer leniently. Numeric strings are truncated
// toward zero, other strings yield their leading integer, or 0 if there is
// none. Values outside the int range saturate.
func ParseInt(s string) int {
	if IsNumeric(s) {
		f, _ := strconv.ParseFloat(strings.Trim(s, space), 64)

		switch {
		case f >= math.MaxInt:
			return math.MaxInt
		case f <= math.MinInt:
			return math.MinInt
		default:
			return int(f)
		}
	}

	s = strings.TrimLeft(s, space)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return n
}
