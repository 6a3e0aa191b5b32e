// Package money parses locale-formatted amount strings and currency markers
// into a canonical (amount, ISO code) pair.
package money

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAmount indicates the numeric token did not parse to a positive finite
// number. Callers treat this as "no transaction", not as a failure.
var ErrNoAmount = errors.New("no parseable amount")

// symbolTable maps currency symbols to ISO codes. Multi-character symbols are
// listed before the bare "$" so that longest-match wins; order is significant.
var symbolTable = []struct {
	Symbol string
	Code   string
}{
	{"A$", "AUD"},
	{"C$", "CAD"},
	{"S$", "SGD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"₫", "VND"},
	{"đ", "VND"},
	{"¥", "JPY"}, // ambiguous with CNY; JPY by default
	{"₹", "INR"},
}

// codePattern matches explicit 3-letter currency codes appearing in text.
var codePattern = regexp.MustCompile(`\b(VND|USD|EUR|GBP|JPY|CNY|INR|AUD|CAD|SGD|KRW|THB)\b`)

// Amount is a parsed numeric token. Negative records whether the token itself
// carried a minus sign; Value is always the absolute value.
type Amount struct {
	Value    float64
	Negative bool
}

// ParseAmount parses a numeric token with thousands separators in either the
// "150,000.25" or "2.500.000,25" convention. The grouping separator is
// inferred from the token shape rather than a full locale table.
func ParseAmount(raw string) (Amount, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return Amount{}, ErrNoAmount
	}

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimLeft(cleaned, "+-")

	cleaned = stripSeparators(cleaned)

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) || val <= 0 {
		return Amount{}, ErrNoAmount
	}

	return Amount{Value: val, Negative: negative}, nil
}

// stripSeparators removes grouping separators and normalizes the decimal
// separator to a period.
func stripSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the later one is the decimal separator.
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		s = normalizeSingle(s, ",")
	case lastDot >= 0:
		s = normalizeSingle(s, ".")
	}

	return s
}

// normalizeSingle handles a token containing only one separator kind: it is a
// decimal separator when followed by one or two digits exactly once, and a
// grouping separator otherwise (bank amounts group digits in threes).
func normalizeSingle(s, sep string) string {
	parts := strings.Split(s, sep)
	last := parts[len(parts)-1]
	if len(parts) == 2 && len(last) > 0 && len(last) <= 2 {
		return parts[0] + "." + last
	}
	return strings.Join(parts, "")
}

// ResolveCurrency maps a captured currency token (symbol or code) to an ISO
// code. Returns the fallback when the token is empty or unrecognized.
func ResolveCurrency(token, fallback string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return fallback
	}

	for _, entry := range symbolTable {
		if strings.EqualFold(token, entry.Symbol) {
			return entry.Code
		}
	}

	upper := strings.ToUpper(token)
	if codePattern.MatchString(upper) {
		return upper
	}

	return fallback
}

// DetectCurrency scans free text for an explicit currency code or symbol.
// Codes win over symbols since they are unambiguous.
func DetectCurrency(text string) (string, bool) {
	if m := codePattern.FindString(strings.ToUpper(text)); m != "" {
		return m, true
	}

	for _, entry := range symbolTable {
		if strings.Contains(text, entry.Symbol) {
			return entry.Code, true
		}
	}

	return "", false
}

// Normalize combines amount parsing and currency resolution. When the
// currency token is empty the rest of the message is scanned for an explicit
// marker before falling back to the home currency.
func Normalize(numericToken, currencyToken, fullText, homeCurrency string) (Amount, string, error) {
	amount, err := ParseAmount(numericToken)
	if err != nil {
		return Amount{}, "", err
	}

	currency := ResolveCurrency(currencyToken, "")
	if currency == "" {
		if detected, ok := DetectCurrency(fullText); ok {
			currency = detected
		} else {
			currency = homeCurrency
		}
	}

	return amount, currency, nil
}
