package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"formatterhub/internal/config"
	"formatterhub/internal/dataprocessing"
	apperrors "formatterhub/internal/errors"
	"formatterhub/internal/exporter"
	"formatterhub/internal/infrastructure"
	"formatterhub/internal/services"
	"formatterhub/internal/validation"
	"formatterhub/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the parsed command line flags. set records which flags were
// given explicitly so they override the config file only when present.
type options struct {
	configPath      string
	reportType      string
	reportsFile     string
	outDir          string
	csv             bool
	bom             bool
	grandTotal      bool
	dropFinalBlank  bool
	workers         int
	trace           bool
	metricsTextfile string
	list            bool
	version         bool
	inputs          []string
	set             map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("formatter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (defaults to $FMT_CONFIG or ./formatter.yaml)")
	fs.StringVar(&opts.reportType, "type", "", "report type, e.g. inventory | products-sold | orders")
	fs.StringVar(&opts.reportsFile, "reports", "", "YAML file with extra or overriding report definitions")
	fs.StringVar(&opts.outDir, "out", "", "output directory")
	fs.BoolVar(&opts.csv, "csv", false, "write CSV instead of XLSX")
	fs.BoolVar(&opts.bom, "bom", false, "prefix CSV output with a UTF-8 BOM")
	fs.BoolVar(&opts.grandTotal, "grand-total", false, "append a grand total row")
	fs.BoolVar(&opts.dropFinalBlank, "drop-final-blank", false, "omit the blank row after the last group")
	fs.IntVar(&opts.workers, "workers", 0, "files formatted concurrently")
	fs.BoolVar(&opts.trace, "trace", false, "print trace spans to stderr")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write metrics in node-exporter textfile format to this path")
	fs.BoolVar(&opts.list, "list", false, "list the available report types and exit")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: formatter -type <report> [flags] <file|dir>...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.inputs = fs.Args()
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		return apperrors.ExitConfig
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return apperrors.ExitOK
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fail(stderr, err)
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fail(stderr, err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fail(stderr, apperrors.NewConfigError("failed to initialize logger", err))
	}
	defer infrastructure.CloseLogFile()
	ctx = infrastructure.EnsureTraceID(ctx)

	catalog, err := config.LoadReportCatalog(cfg.ReportsFile)
	if err != nil {
		return fail(stderr, err)
	}
	if opts.list {
		for _, name := range catalog.Names() {
			fmt.Fprintln(stdout, name)
		}
		return apperrors.ExitOK
	}
	if opts.reportType == "" {
		return fail(stderr, apperrors.NewConfigError(
			fmt.Sprintf("-type is required (available: %s)", strings.Join(catalog.Names(), ", ")), nil))
	}
	def, err := catalog.Get(opts.reportType)
	if err != nil {
		return fail(stderr, err)
	}

	reportCfg := def.ToReportConfig()
	if opts.set["grand-total"] {
		reportCfg.GrandTotal = opts.grandTotal
	}
	if opts.set["drop-final-blank"] {
		reportCfg.DropFinalBlank = opts.dropFinalBlank
	}

	validator := validation.NewFileValidator(logger)
	inputs, err := expandInputs(validator, opts.inputs)
	if err != nil {
		return fail(stderr, err)
	}
	if err := validator.ValidateOutputDirectory(cfg.Output.Dir); err != nil {
		return fail(stderr, err)
	}

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version)
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return fail(stderr, apperrors.NewConfigError("failed to initialize telemetry", err))
	}
	defer func() {
		if cfg.Telemetry.MetricsTextfile != "" {
			if err := providers.WriteMetricsTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
				logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
			}
		}
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	svc, err := services.NewReportService(providers, logger,
		services.WithWorkers(cfg.Batch.Workers),
		services.WithCSVOptions(exporter.WriteOptions{BOMPrefix: cfg.Output.BOMPrefix}),
	)
	if err != nil {
		return fail(stderr, err)
	}

	if cfg.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.Timeout)
		defer cancel()
	}

	format := dataprocessing.FormatXLSX
	if cfg.Output.CSV {
		format = dataprocessing.FormatCSV
	}
	jobs := make([]services.FileJob, len(inputs))
	for i, in := range inputs {
		jobs[i] = services.FileJob{
			Input:        in,
			Output:       filepath.Join(cfg.Output.Dir, outputName(def, in, len(inputs) > 1, string(format))),
			Report:       reportCfg,
			OutputFormat: format,
		}
	}

	logger.InfoContext(ctx, "Formatting reports",
		slog.String("report", def.Name),
		slog.Int("files", len(jobs)),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("format", string(format)))

	code := apperrors.ExitOK
	for _, r := range svc.GenerateFiles(ctx, jobs) {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", r.Job.Input, apperrors.UserMessage(r.Err))
			if code == apperrors.ExitOK {
				code = apperrors.ExitCode(r.Err)
			}
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s (%d groups)\n", r.Job.Input, r.Job.Output, r.Result.Groups)
	}
	return code
}

// applyFlags overlays explicitly given flags onto the loaded config.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.set["out"] {
		cfg.Output.Dir = opts.outDir
	}
	if opts.set["csv"] {
		cfg.Output.CSV = opts.csv
	}
	if opts.set["bom"] {
		cfg.Output.BOMPrefix = opts.bom
	}
	if opts.set["workers"] && opts.workers > 0 {
		cfg.Batch.Workers = opts.workers
	}
	if opts.set["trace"] {
		cfg.Telemetry.TracingEnabled = opts.trace
	}
	if opts.set["metrics-textfile"] {
		cfg.Telemetry.MetricsTextfile = opts.metricsTextfile
	}
	if opts.set["reports"] {
		cfg.ReportsFile = opts.reportsFile
	}
}

// expandInputs validates file arguments and replaces directory arguments
// with the uploads they contain.
func expandInputs(v *validation.FileValidator, args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			found, err := v.FindInputs(arg)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, found...)
			continue
		}
		if err := v.ValidateInputFile(arg); err != nil {
			return nil, err
		}
		inputs = append(inputs, arg)
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "no input files given", services.ErrNoJobs)
	}
	return inputs, nil
}

// outputName is the report's download name, suffixed with the input's base
// name when several inputs share one output directory.
func outputName(def config.ReportDefinition, input string, multi bool, ext string) string {
	name := def.FileName(ext)
	if !multi {
		return name
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return stem + "_" + base + filepath.Ext(name)
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "formatter: %s\n", apperrors.UserMessage(err))
	return apperrors.ExitCode(err)
}
