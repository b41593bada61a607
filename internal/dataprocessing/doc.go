// Package dataprocessing turns uploaded CSV and XLSX files into
// domain.Table values for the report engine.
//
// The reader is deliberately permissive: it trims headers, names blank
// header cells Column_N, pads short rows with nulls and skips blank rows.
// It does not decide which columns a report needs; that is the
// normalizer's job in package report.
//
// # Usage
//
//	format := dataprocessing.DetectFormat(name, head)
//	tbl, err := dataprocessing.ReadTable(r, format, dataprocessing.DefaultReadOptions())
//	if err != nil {
//	    return err // *errors.AppError with type PARSING
//	}
//
// # Cleaning
//
// ParseCurrency and ParseInteger never fail. Text that cannot be read as a
// number becomes zero, matching how spreadsheet exports are treated in the
// field ("N/A", "-", blank cells).
package dataprocessing
