package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"formatterhub/internal/config"
	apperrors "formatterhub/internal/errors"
)

// MeterName is the instrumentation scope of every tracer and meter.
const MeterName = "formatterhub"

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	EnableMetrics  bool
	// TraceWriter receives finished spans; defaults to stderr.
	TraceWriter io.Writer
	SampleRatio float64
}

// OTelConfigFrom maps the telemetry section of the application config.
func OTelConfigFrom(cfg config.TelemetryConfig, version string) *OTelConfig {
	return &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		EnableTracing:  cfg.TracingEnabled,
		EnableMetrics:  cfg.MetricsEnabled || cfg.MetricsTextfile != "",
		SampleRatio:    1.0,
	}
}

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// always usable; they are no-ops when the matching signal is disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry gathers the metrics exported through the prometheus reader.
	Registry *promclient.Registry
	Logger   *slog.Logger
}

// NoopProviders returns providers that record nothing.
func NoopProviders(logger *slog.Logger) *OTelProviders {
	if logger == nil {
		logger = GetLogger()
	}
	return &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}
}

// InitializeOTel sets up tracing and metrics as enabled in cfg.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = &OTelConfig{ServiceName: config.AppName}
	}
	providers := NoopProviders(logger)
	logger = providers.Logger

	ctx := context.Background()
	logger.DebugContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	if cfg.EnableTracing {
		if err := initializeTracing(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if cfg.EnableMetrics {
		if err := initializeMetrics(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return providers, nil
}

func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	w := cfg.TraceWriter
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 {
		ratio = 1.0
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(ratio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)
	return nil
}

func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	reg := promclient.NewRegistry()
	// target_info carries dotted resource keys that classic textfile
	// collectors reject.
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(reg),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = reg
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)
	return nil
}

// WriteMetricsTextfile dumps the current metrics in the node-exporter
// textfile format.
func (p *OTelProviders) WriteMetricsTextfile(path string) error {
	if p.Registry == nil {
		return errors.New("metrics are not enabled")
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ReportMetrics holds the instruments recorded per report generation.
type ReportMetrics struct {
	Generations   metric.Int64Counter
	Errors        metric.Int64Counter
	Duration      metric.Float64Histogram
	StageDuration metric.Float64Histogram
	RowsRead      metric.Int64Counter
	GroupsEmitted metric.Int64Counter
	RowsWritten   metric.Int64Counter
}

// Metric attribute keys. Underscores keep the textfile readable by classic
// Prometheus parsers.
const (
	attrReportType = "report_type"
	attrErrorType  = "error_type"
	attrStatus     = "status"
	attrStage      = "stage"
)

// DurationBuckets are the histogram boundaries, in seconds, for report and
// stage durations.
var DurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// NewReportMetrics creates the report instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	var (
		m   ReportMetrics
		err error
	)
	if m.Generations, err = meter.Int64Counter("report_generations",
		metric.WithDescription("Total number of report generations")); err != nil {
		return nil, err
	}
	if m.Errors, err = meter.Int64Counter("report_errors",
		metric.WithDescription("Total number of failed report generations")); err != nil {
		return nil, err
	}
	if m.Duration, err = meter.Float64Histogram("report_generation_duration",
		metric.WithDescription("Report generation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DurationBuckets...)); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram("report_stage_duration",
		metric.WithDescription("Duration of one generation stage in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DurationBuckets...)); err != nil {
		return nil, err
	}
	if m.RowsRead, err = meter.Int64Counter("report_rows_read",
		metric.WithDescription("Total number of input data rows read")); err != nil {
		return nil, err
	}
	if m.GroupsEmitted, err = meter.Int64Counter("report_groups",
		metric.WithDescription("Total number of groups emitted")); err != nil {
		return nil, err
	}
	if m.RowsWritten, err = meter.Int64Counter("report_rows_written",
		metric.WithDescription("Total number of report rows written, header excluded")); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReportOutcome summarizes one generation for RecordReport.
type ReportOutcome struct {
	Report   string
	Duration time.Duration
	RowsRead int
	Groups   int
	Rows     int
	Err      error
}

// RecordReport records one finished generation.
func (m *ReportMetrics) RecordReport(ctx context.Context, o ReportOutcome) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String(attrReportType, o.Report)}
	m.Generations.Add(ctx, 1, metric.WithAttributes(attrs...))

	status := attribute.String(attrStatus, "success")
	if o.Err != nil {
		status = attribute.String(attrStatus, "failure")
		m.Errors.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String(attrErrorType, errorType(o.Err)))...))
	}
	m.Duration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(append(attrs, status)...))

	if o.Err == nil {
		m.RowsRead.Add(ctx, int64(o.RowsRead), metric.WithAttributes(attrs...))
		m.GroupsEmitted.Add(ctx, int64(o.Groups), metric.WithAttributes(attrs...))
		m.RowsWritten.Add(ctx, int64(o.Rows), metric.WithAttributes(attrs...))
	}
}

// RecordStage records the duration of one stage (read, generate, write).
func (m *ReportMetrics) RecordStage(ctx context.Context, reportType, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(attrReportType, reportType),
		attribute.String(attrStage, stage),
	))
}

// errorType labels err by its application error type when it has one.
func errorType(err error) string {
	if apperrors.IsSchemaError(err) {
		return string(apperrors.ErrTypeSchema)
	}
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "UNKNOWN"
}
