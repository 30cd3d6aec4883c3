package marketdata

import (
	"strconv"
	"strings"
)

// DefaultSigma is the annualized volatility used whenever the upstream value
// is missing, zero, or unparseable. Never zero: a zero sigma degenerates the
// pricing model.
const DefaultSigma = 0.40

// ParseLocaleFloat normalizes a locale-formatted numeric cell into a float.
//
// Handles "R$ 1.234,56", "1.234,56", "12,5", "12.5" and percentage forms; a
// trailing "%" divides the result by 100, so "1,5%" parses to 0.015.
// Unparseable input yields 0 — absence of a number, not an error, matching
// how the upstream rows behave.
func ParseLocaleFloat(v string) float64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0
	}

	isPct := strings.Contains(s, "%")
	s = strings.NewReplacer("R$", "", " ", "", "%", "").Replace(s)

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		// Brazilian format with thousands: 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if isPct {
		return f / 100
	}
	return f
}

// ParseSigma converts an annualized volatility cell ("45,3" or "45,3%",
// meaning 45.3% a year) into a fraction, falling back to DefaultSigma when
// the value is missing, zero, or unparseable.
func ParseSigma(v string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(v), "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return DefaultSigma
	}
	return f / 100
}

// ParseRatePercent converts a headline rate string ("10.75%", "10,75") into
// a fraction. Returns ok=false when the string carries no number.
func ParseRatePercent(v string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(v), "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f / 100, true
}

// ParseOptionType normalizes the free-text contract type label. The
// vocabulary is locale-mixed: CALL/COMPRA mark calls, PUT/VENDA mark puts.
// Anything else is OptionUnknown and is dropped by the classifier.
func ParseOptionType(label string) OptionType {
	up := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case strings.Contains(up, "CALL"):
		return OptionCall
	case strings.Contains(up, "PUT"):
		return OptionPut
	case strings.Contains(up, "COMPRA"):
		return OptionCall
	case strings.Contains(up, "VENDA"):
		return OptionPut
	default:
		return OptionUnknown
	}
}
