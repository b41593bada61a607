package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "12.50", 12.5},
		{"dollar sign and commas", "$1,234.56", 1234.56},
		{"negative", "-$3.00", -3},
		{"not available", "N/A", 0},
		{"empty", "", 0},
		{"only symbols", "$", 0},
		{"two decimal points", "1.2.3", 0},
		{"surrounding text", " USD 7.25 ", 7.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseCurrency(tt.input), 1e-9)
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"plain", "42", 42},
		{"thousands", "1,200", 1200},
		{"float truncates", "12.9", 12},
		{"negative float truncates toward zero", "-2.5", -2},
		{"garbage", "lots", 0},
		{"blank", "  ", 0},
		{"min int64", "-9223372036854775808", math.MinInt64},
		{"just past max int64", "9223372036854775808", 0},
		{"huge exponent", "1e19", 0},
		{"huge negative exponent", "-1e19", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInteger(tt.input))
		})
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 2.68, RoundCents(2.675))
	assert.Equal(t, 10.0, RoundCents(9.999))
	assert.Equal(t, -1.24, RoundCents(-1.235))
	assert.Equal(t, 0.0, RoundCents(0))
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "Brand", CleanHeader("  Brand\t"))
	assert.Equal(t, "Name", CleanHeader("\ufeffName"))
	assert.Equal(t, "Caf\u00e9", CleanHeader("Cafe\u0301"))
}
