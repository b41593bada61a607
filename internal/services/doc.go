// Package services wires the report engine to its inputs and outputs.
//
// ReportService.Generate runs one upload through three stages, each in its
// own span and recorded in the report metrics:
//
//	read      parse CSV or XLSX into a domain.Table
//	generate  report.Generate: normalize, group, assemble, plan
//	write     render the plan as XLSX or CSV
//
// GenerateFiles fans a list of file jobs out over a bounded worker pool.
// Each job writes to a temporary file that is renamed into place on
// success, and a failing job does not affect the others.
//
// Services take their logger and telemetry providers by injection:
//
//	svc, err := services.NewReportService(providers, logger, services.WithWorkers(4))
//	results := svc.GenerateFiles(ctx, jobs)
package services
