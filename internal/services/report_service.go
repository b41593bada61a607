package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"formatterhub/internal/dataprocessing"
	apperrors "formatterhub/internal/errors"
	"formatterhub/internal/exporter"
	"formatterhub/internal/infrastructure"
	"formatterhub/internal/report"
	"formatterhub/pkg/contracts/domain"
)

// Generation stages, used as span names and metric labels.
const (
	StageRead     = "read"
	StageGenerate = "generate"
	StageWrite    = "write"
)

// ReportService turns uploads into formatted reports: read, run the
// engine, render. It holds no per-request state and is safe for
// concurrent use.
type ReportService struct {
	tracer   trace.Tracer
	metrics  *infrastructure.ReportMetrics
	logger   *slog.Logger
	csv      *exporter.CSVWriter
	xlsx     *exporter.XLSXWriter
	readOpts dataprocessing.ReadOptions
	csvOpts  exporter.WriteOptions
	workers  int
}

// Option configures a ReportService.
type Option func(*ReportService)

// WithReadOptions overrides how uploads are parsed.
func WithReadOptions(opts dataprocessing.ReadOptions) Option {
	return func(s *ReportService) { s.readOpts = opts }
}

// WithCSVOptions overrides CSV output options.
func WithCSVOptions(opts exporter.WriteOptions) Option {
	return func(s *ReportService) { s.csvOpts = opts }
}

// WithWorkers bounds how many files GenerateFiles processes at once.
func WithWorkers(n int) Option {
	return func(s *ReportService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewReportService creates the service. A nil providers value disables
// tracing and metrics; a nil logger uses the global logger.
func NewReportService(providers *infrastructure.OTelProviders, logger *slog.Logger, opts ...Option) (*ReportService, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if providers == nil {
		providers = infrastructure.NoopProviders(logger)
	}

	metrics, err := infrastructure.NewReportMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	s := &ReportService{
		tracer:   providers.Tracer,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "report_service"),
		csv:      exporter.NewCSVWriter(""),
		xlsx:     exporter.NewXLSXWriter(),
		readOpts: dataprocessing.DefaultReadOptions(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateRequest is one report to produce.
type GenerateRequest struct {
	// Name identifies the input in logs and drives format detection.
	Name  string
	Input io.Reader
	// Format of the input; empty means detect from Name and content.
	Format dataprocessing.Format
	Report report.Config
	Output io.Writer
	// OutputFormat defaults to xlsx.
	OutputFormat dataprocessing.Format
}

// GenerateResult describes a successful generation.
type GenerateResult struct {
	Report       string
	InputFormat  dataprocessing.Format
	OutputFormat dataprocessing.Format
	RowsRead     int
	Groups       int
	RowsWritten  int
	Duration     time.Duration
	Result       *report.Result
}

// Generate reads req.Input, builds the report and renders it to
// req.Output. Nothing is written when reading or generation fails.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (res *GenerateResult, err error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	outFormat := req.OutputFormat
	if outFormat == "" {
		outFormat = dataprocessing.FormatXLSX
	}
	logger := s.logger.With(
		slog.String("report", req.Report.Name),
		slog.String("input", req.Name))

	ctx, span := s.tracer.Start(ctx, "report.generate", trace.WithAttributes(
		attribute.String("report.type", req.Report.Name),
		attribute.String("report.input", req.Name),
		attribute.String("report.output_format", string(outFormat)),
	))
	defer func() {
		outcome := infrastructure.ReportOutcome{Report: req.Report.Name, Duration: time.Since(start), Err: err}
		if res != nil {
			outcome.RowsRead, outcome.Groups, outcome.Rows = res.RowsRead, res.Groups, res.RowsWritten
		}
		s.metrics.RecordReport(ctx, outcome)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			logger.ErrorContext(ctx, "Report generation failed", slog.String("error", err.Error()))
		}
		span.End()
	}()

	if req.Input == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid request", ErrNoInput)
	}
	if req.Output == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid request", ErrNoOutput)
	}
	if outFormat != dataprocessing.FormatCSV && outFormat != dataprocessing.FormatXLSX {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation,
			fmt.Sprintf("output format %q", outFormat), ErrUnsupportedFormat)
	}

	var (
		inFormat dataprocessing.Format
		raw      domain.Table
		result   *report.Result
	)
	err = s.stage(ctx, req.Report.Name, StageRead, func(ctx context.Context) error {
		input := bufio.NewReader(req.Input)
		inFormat = req.Format
		if inFormat == "" {
			head, _ := input.Peek(4)
			inFormat = dataprocessing.DetectFormat(req.Name, head)
		}
		var readErr error
		raw, readErr = dataprocessing.ReadTable(input, inFormat, s.readOpts)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("report.rows_read", raw.Len()))
		return readErr
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.stage(ctx, req.Report.Name, StageGenerate, func(context.Context) error {
		var genErr error
		result, genErr = report.Generate(raw, req.Report)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.stage(ctx, req.Report.Name, StageWrite, func(context.Context) error {
		if outFormat == dataprocessing.FormatCSV {
			return s.csv.Write(req.Output, result.Plan, s.csvOpts)
		}
		return s.xlsx.Write(req.Output, result.Plan)
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write report", err)
	}

	res = &GenerateResult{
		Report:       req.Report.Name,
		InputFormat:  inFormat,
		OutputFormat: outFormat,
		RowsRead:     result.Table.Len(),
		Groups:       len(result.Groups),
		RowsWritten:  len(result.Plan.Rows),
		Duration:     time.Since(start),
		Result:       result,
	}

	logger.InfoContext(ctx, "Report generated",
		slog.String("input_format", string(inFormat)),
		slog.String("output_format", string(outFormat)),
		slog.Int("rows_read", res.RowsRead),
		slog.Int("groups", res.Groups),
		slog.Int("rows_written", res.RowsWritten),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// stage runs fn inside a child span and records its duration.
func (s *ReportService) stage(ctx context.Context, reportType, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "report.stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordStage(ctx, reportType, name, time.Since(start))
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}
