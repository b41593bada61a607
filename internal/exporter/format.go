package exporter

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"formatterhub/pkg/contracts/domain"
)

// FormatCurrency renders an amount the way the "$#,##0.00" number format
// displays it, e.g. 1234.5 -> "$1,234.50" and -3 -> "-$3.00".
func FormatCurrency(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	p := message.NewPrinter(language.AmericanEnglish)
	if f < 0 {
		return "-" + p.Sprintf("$%.2f", -f)
	}
	return p.Sprintf("$%.2f", f)
}

// formatCell renders one plan cell as text. Numbers in columns that carry a
// number format are rendered as money.
func formatCell(v domain.Value, numberFormat string) string {
	if numberFormat != "" {
		if n, ok := v.Number(); ok {
			return FormatCurrency(n)
		}
	}
	return v.Text()
}
