// Package report is the grouping and subtotal engine.
//
// A report is described entirely by a Config. Generate normalizes a raw
// domain.Table, partitions it into contiguous groups by key columns,
// computes per-group aggregates, injects labeled subtotal rows, blank
// separators and an optional grand total, and finally produces a
// domain.RenderDirective that a spreadsheet writer can render without
// knowing anything about the report type.
//
//	res, err := report.Generate(tbl, cfg)
//	if errors.IsSchemaError(err) {
//	    // show err.Error() ("missing column: Brand") to the user
//	}
//	err = exporter.NewXLSXWriter().Write(w, res.Plan)
//
// Row roles are carried in the typed domain.ReportRow, never inferred from
// label text, so a product literally named "TOTAL - X" stays a detail row.
//
// The package does no I/O and keeps no package-level state; concurrent
// calls with independent tables are safe.
package report
