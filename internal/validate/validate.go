// Package validate holds the input cleaning and validation rules applied to
// every client-supplied value before it reaches the store or the gateway.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-course/internal/common"
)

var (
	stripRe  = regexp.MustCompile(`[^A-Za-z0-9@._-]+`)
	digitsRe = regexp.MustCompile(`[^0-9]+`)
	phoneRe  = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe  = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// Statuses a payment record may carry.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Sanitize trims surrounding whitespace and strips every character outside
// the [A-Za-z0-9@._-] allowlist.
func Sanitize(s string) string {
	return stripRe.ReplaceAllString(strings.TrimSpace(s), "")
}

// Phone strips every non-digit character and requires exactly 10 digits to
// remain. The digit-only value is returned; it is what gets stored, so
// "123-456-7890" and "1234567890" persist identically.
func Phone(s string) (string, error) {
	digits := digitsRe.ReplaceAllString(s, "")
	if !phoneRe.MatchString(digits) {
		return "", common.ValidationError("invalid phone")
	}
	return digits, nil
}

// Email requires local@domain.tld syntax with a restricted character set.
func Email(s string) error {
	if !emailRe.MatchString(Sanitize(s)) {
		return common.ValidationError("invalid email")
	}
	return nil
}

// Status normalises and checks membership in the payment status enum.
func Status(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case StatusPending, StatusSuccess, StatusFailed:
		return normalized, nil
	}
	return "", common.ValidationError("invalid status")
}

// NumberInRange parses raw as a decimal and enforces [min,max]. The lower
// bound is exclusive when exclusiveMin is set (basePrice must be > 0 strictly,
// discountPercentage accepts 0).
func NumberInRange(name, raw string, min, max decimal.Decimal, exclusiveMin bool) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, common.ValidationError(fmt.Sprintf("invalid %s", name))
	}
	if exclusiveMin {
		if value.LessThanOrEqual(min) {
			return decimal.Decimal{}, common.ValidationError(fmt.Sprintf("%s must be greater than %s", name, min.String()))
		}
	} else if value.LessThan(min) {
		return decimal.Decimal{}, common.ValidationError(fmt.Sprintf("%s must be at least %s", name, min.String()))
	}
	if value.GreaterThan(max) {
		return decimal.Decimal{}, common.ValidationError(fmt.Sprintf("%s must be at most %s", name, max.String()))
	}
	return value, nil
}
