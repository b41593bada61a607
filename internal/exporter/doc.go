// Package exporter renders a report plan (domain.RenderDirective) to the
// formats users download.
//
// XLSXWriter produces the formatted workbook: styled header, column widths,
// currency number formats, bold total rows, a frozen header row and an
// autofilter. Each Write builds its own workbook, so one writer can be
// shared across goroutines.
//
// CSVWriter produces a plain-text rendering of the same plan, with an
// optional UTF-8 BOM so Excel detects the encoding. Money columns are
// written as "$1,234.50" since CSV has no number formats.
//
// Example usage:
//
//	res, err := report.Generate(tbl, cfg)
//	if err != nil {
//	    return err
//	}
//	err = exporter.NewXLSXWriter().WriteFile("Formatted_Inventory.xlsx", res.Plan)
package exporter
