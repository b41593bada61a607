package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"formatterhub/pkg/contracts/domain"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0, expected: "$0.00"},
		{name: "whole dollars", input: 15, expected: "$15.00"},
		{name: "thousands separator", input: 1234.5, expected: "$1,234.50"},
		{name: "millions", input: 1234567.891, expected: "$1,234,567.89"},
		{name: "negative", input: -3, expected: "-$3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.input))
		})
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "$2.00", formatCell(domain.Float(2), "$#,##0.00"))
	assert.Equal(t, "$7.00", formatCell(domain.Int(7), "$#,##0.00"))
	assert.Equal(t, "TOTAL - Acme", formatCell(domain.String("TOTAL - Acme"), "$#,##0.00"))
	assert.Equal(t, "2.5", formatCell(domain.Float(2.5), ""))
	assert.Equal(t, "", formatCell(domain.Null(), ""))
}
