package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom rules used by payment
// request payloads registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("amount", validAmount)
	return v
}

// validAmount accepts a positive decimal string with at most two
// fraction digits, e.g. "100", "100.5", "100.50". Provider codecs
// reject anything finer than minor units, so the API surface does too.
func validAmount(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}

	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" || !isDigits(whole) {
		return false
	}
	if hasFrac && (frac == "" || len(frac) > 2 || !isDigits(frac)) {
		return false
	}

	// Zero is a valid decimal but not a chargeable amount
	return strings.Trim(whole+frac, "0") != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
