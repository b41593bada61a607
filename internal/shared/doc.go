// Package shared holds helpers used across the formatter's packages that
// belong to no single layer.
//
// The testutil subpackage captures slog output so service and CLI tests
// can assert on what was logged:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc, _ := services.NewReportService(nil, logger)
//	// ...
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Report generated")
package shared
