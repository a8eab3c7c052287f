// Package validation holds the per-field input rules shared by the API
// handlers. Each rule takes the raw optional value decoded from the request
// (a nil pointer means the field was absent) and returns the accepted typed
// value plus whether it passed. The caller owns the error message, so the
// same rule can serve different fields.
package validation

import (
	"math"
	"net/mail"
	"strings"
)

// Fields maps a field name to its validation error message.
type Fields map[string]string

// Add records an error message for a field.
func (f Fields) Add(field, message string) {
	f[field] = message
}

// OK reports whether no field failed validation.
func (f Fields) OK() bool {
	return len(f) == 0
}

// RequiredString trims the value and requires it to be non-empty.
func RequiredString(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

// MinLength requires the value to be present and at least n bytes long.
func MinLength(v *string, n int) (string, bool) {
	if v == nil || len(*v) < n {
		return "", false
	}
	return *v, true
}

// Email trims the value and requires it to be a plain, valid address.
func Email(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		// Reject display-name forms like "Name <a@b.com>"; only the bare
		// address is an acceptable input.
		return "", false
	}
	return s, true
}

// Int requires the value to be an integral JSON number within int64 range.
// The range guard matters: converting an out-of-range float64 to int64 has
// an implementation-defined result.
func Int(v *float64) (int64, bool) {
	if v == nil || *v != math.Trunc(*v) || *v < math.MinInt64 || *v >= math.MaxInt64 {
		return 0, false
	}
	return int64(*v), true
}

// NonNegativeInt requires an integral JSON number greater than or equal to
// zero.
func NonNegativeInt(v *float64) (int, bool) {
	n, ok := Int(v)
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// NonNegativeFloat requires a JSON number greater than or equal to zero.
func NonNegativeFloat(v *float64) (float64, bool) {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// ZeroOrOne requires the value to be exactly 0 or 1.
func ZeroOrOne(v *float64) (int, bool) {
	n, ok := Int(v)
	if !ok || (n != 0 && n != 1) {
		return 0, false
	}
	return int(n), true
}
