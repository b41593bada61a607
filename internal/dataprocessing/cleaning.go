package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// CleanCurrency strips currency symbols, thousands separators and any other
// decoration, keeping only digits, '-' and '.'.
func CleanCurrency(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseCurrency converts money text such as "$1,234.50" to a float.
// Anything that cannot be parsed after cleaning ("N/A", "", "1.2.3") is 0.
func ParseCurrency(s string) float64 {
	cleaned := CleanCurrency(s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseInteger converts count text such as "1,200" to an integer.
// Fractional values are truncated toward zero; unparseable text is 0.
func ParseInteger(s string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0
	}
	if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= 0x1p63 || f < -0x1p63 {
		return 0
	}
	return int64(f)
}

// RoundCents rounds a money amount to two decimal places, half away from
// zero, without binary floating point drift.
func RoundCents(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// CleanHeader trims a column name, drops a leading byte order mark and
// applies NFC normalization so visually equal headers compare equal.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(s))
}
