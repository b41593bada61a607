package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formatterhub/internal/config"
	apperrors "formatterhub/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		ServiceName:     "svc",
		TracingEnabled:  true,
		MetricsTextfile: "/tmp/x.prom",
	}, "1.2.3")

	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.EnableMetrics, "a textfile target implies metrics")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	p, err := InitializeOTel(&OTelConfig{ServiceName: "svc"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Meter)

	_, span := p.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.Error(t, p.WriteMetricsTextfile(filepath.Join(t.TempDir(), "m.prom")))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitializeOTel_Tracing(t *testing.T) {
	var out bytes.Buffer
	p, err := InitializeOTel(&OTelConfig{
		ServiceName:    "svc",
		ServiceVersion: "test",
		EnableTracing:  true,
		TraceWriter:    &out,
	}, discardLogger())
	require.NoError(t, err)

	ctx, span := p.Tracer.Start(context.Background(), "report.generate")
	assert.True(t, span.IsRecording())
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "report.generate")
	assert.Contains(t, out.String(), "boom")
}

func TestReportMetrics_Textfile(t *testing.T) {
	p, err := InitializeOTel(&OTelConfig{ServiceName: "svc", EnableMetrics: true}, discardLogger())
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	m, err := NewReportMetrics(p.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordReport(ctx, ReportOutcome{Report: "orders", Duration: 20 * time.Millisecond, RowsRead: 10, Groups: 3, Rows: 16})
	m.RecordReport(ctx, ReportOutcome{Report: "orders", Duration: time.Millisecond, Err: apperrors.NewSchemaError("Brand", nil)})
	m.RecordStage(ctx, "orders", "read", 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "formatter.prom")
	require.NoError(t, p.WriteMetricsTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "report_generations_total")
	assert.Contains(t, text, "report_errors_total")
	assert.Contains(t, text, "report_stage_duration_seconds")
	assert.Contains(t, text, `error_type="SCHEMA"`)
	assert.Contains(t, text, `report_type="orders"`)
	assert.Contains(t, text, `stage="read"`)
	assert.NotContains(t, text, `"report.type"`)
	assert.NotContains(t, text, `"service.name"`, "no quoted resource labels")

	// 20ms lands in the 25ms bucket, which only exists with second-sized boundaries.
	assert.Regexp(t, `report_generation_duration_seconds_bucket\{[^}]*le="0\.025"[^}]*\} 1`, text)
	assert.Regexp(t, `report_stage_duration_seconds_bucket\{[^}]*le="0\.01"[^}]*\} 1`, text)
}

func TestReportMetrics_NilSafe(t *testing.T) {
	var m *ReportMetrics
	assert.NotPanics(t, func() {
		m.RecordReport(context.Background(), ReportOutcome{Report: "x"})
		m.RecordStage(context.Background(), "x", "read", time.Second)
	})
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"schema", apperrors.NewSchemaError("Brand", nil), "SCHEMA"},
		{"parsing", apperrors.NewParsingError("bad", nil), "PARSING"},
		{"wrapped config", errors.Join(errors.New("x"), apperrors.NewConfigError("bad", nil)), "CONFIG"},
		{"plain", errors.New("plain"), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorType(tt.err))
		})
	}
}
