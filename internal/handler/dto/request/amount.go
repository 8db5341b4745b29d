package request

import (
	"bytes"
	"strconv"
	"strings"
)

// Amount is the request form of an amount. Any JSON number with an integral
// value is accepted, so 3000, 3000.0 and 3e3 decode to the same Amount.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return &FieldError{Field: fieldAmount, Message: "'amount' is not a number."}
	}

	v, err := parseIntegral(string(b))
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

var (
	errNotInteger = &FieldError{Field: fieldAmount, Message: "'amount' should be an integer."}
	errTooLarge   = &FieldError{Field: fieldAmount, Message: "'amount' is too large."}
)

// parseIntegral reads a JSON number literal exactly, without going through
// float64. s has already passed the JSON scanner.
func parseIntegral(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	mantissa, expPart, _ := strings.Cut(strings.ToLower(s), "e")
	intPart, fracPart, _ := strings.Cut(mantissa, ".")

	exp := 0
	if expPart != "" {
		e, err := strconv.Atoi(expPart)
		if err != nil {
			// exponent beyond int range
			if strings.Trim(intPart+fracPart, "0") == "" {
				return 0, nil
			}
			if strings.HasPrefix(expPart, "-") {
				return 0, errNotInteger
			}
			return 0, errTooLarge
		}
		exp = e
	}

	digits := intPart + fracPart
	point := len(intPart) + exp

	trimmed := strings.TrimLeft(digits, "0")
	point -= len(digits) - len(trimmed)
	digits = trimmed
	if digits == "" {
		return 0, nil
	}

	if point < len(digits) {
		if point < 0 || strings.Trim(digits[point:], "0") != "" {
			return 0, errNotInteger
		}
		digits = digits[:point]
	}
	if point > 19 {
		return 0, errTooLarge
	}
	if point > len(digits) {
		digits += strings.Repeat("0", point-len(digits))
	}
	if digits == "" {
		return 0, nil
	}
	if neg {
		digits = "-" + digits
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, errTooLarge
	}
	return v, nil
}
