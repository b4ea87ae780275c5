package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// Gateways bill in minor units (kurus for TRY). Conversions run on
// integer digit handling, never floats, so the wire amount is exact.

// ToMinorUnits converts a decimal string amount into an integer
// minor-unit string: "100.00" -> "10000", "0.99" -> "99". Fraction
// digits beyond the second are rounded half-up on the cent digit.
func ToMinorUnits(amount string) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(amount, "-") {
		return "", fmt.Errorf("amount %q is negative", amount)
	}

	intPart := amount
	fracPart := ""
	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		intPart = amount[:idx]
		fracPart = amount[idx+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return "", fmt.Errorf("amount %q is not a decimal number", amount)
	}

	// Cent digits, zero padded
	cents := fracPart
	if len(cents) > 2 {
		cents = cents[:2]
	}
	for len(cents) < 2 {
		cents += "0"
	}

	minor, err := strconv.ParseInt(intPart+cents, 10, 64)
	if err != nil {
		return "", fmt.Errorf("amount %q out of range", amount)
	}

	// Round half-up on the first dropped digit
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		minor++
	}

	return strconv.FormatInt(minor, 10), nil
}

// FromMinorUnits converts an integer minor-unit string back into a
// decimal amount with exactly two fraction digits: "10050" -> "100.50".
func FromMinorUnits(minor string) (string, error) {
	minor = strings.TrimSpace(minor)
	if minor == "" || !isDigits(minor) {
		return "", fmt.Errorf("minor amount %q is not an integer", minor)
	}

	n, err := strconv.ParseInt(minor, 10, 64)
	if err != nil {
		return "", fmt.Errorf("minor amount %q out of range", minor)
	}

	return fmt.Sprintf("%d.%02d", n/100, n%100), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numericCurrencyCodes maps ISO 4217 alphabetic codes to numeric codes
var numericCurrencyCodes = map[string]string{
	"TRY": "949",
	"USD": "840",
	"EUR": "978",
	"GBP": "826",
}

// CurrencyNumericCode returns the ISO 4217 numeric code for an
// alphabetic currency code. Unknown codes fall back to "949" (TRY),
// matching the gateways' home-currency default; callers that need a
// different policy should use CurrencyNumericCodeOr.
func CurrencyNumericCode(currency string) string {
	return CurrencyNumericCodeOr(currency, "949")
}

// CurrencyNumericCodeOr is CurrencyNumericCode with an explicit fallback
func CurrencyNumericCodeOr(currency, fallback string) string {
	if code, ok := numericCurrencyCodes[strings.ToUpper(currency)]; ok {
		return code
	}
	return fallback
}
