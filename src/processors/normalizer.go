package processors

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeRupiah converts a raw cell holding an Indonesian-Rupiah-formatted
// or plain numeric value into a float. It is a best-effort cleaner, not a
// validator: empty or unparseable input yields 0, never an error.
//
// Examples: "Rp299.000" -> 299000, "-Rp199.000" -> -199000,
// "Rp 12.500,75" -> 12500.75, "garbage" -> 0.
func NormalizeRupiah(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// Numeric passthrough for cells with no currency decoration.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finiteOrZero(v)
	}

	negative := strings.HasPrefix(s, "-")

	// Drop the sign and spacing, then the currency prefix.
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if len(s) >= 2 && strings.EqualFold(s[:2], "rp") {
		s = s[2:]
	}

	// "." is the thousands separator in this locale, "," the decimal mark.
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	v = finiteOrZero(v)
	if negative {
		v = -v
	}
	return v
}

// ParseQuantity coerces a stock-count cell to a number. Unlike prices,
// quantities carry no currency decoration; empty or unparseable cells
// default to 0.
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

// finiteOrZero guards against the NaN and Inf spellings strconv accepts;
// non-finite values never enter the cleaned table.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
