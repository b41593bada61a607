package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"formatterhub/internal/dataprocessing"
	apperrors "formatterhub/internal/errors"
	"formatterhub/internal/report"
)

// FileJob is one upload to format into one output file.
type FileJob struct {
	Input        string
	Output       string
	Report       report.Config
	OutputFormat dataprocessing.Format
}

// FileResult is the outcome of one FileJob. Exactly one of Result and Err
// is set.
type FileResult struct {
	Job    FileJob
	Result *GenerateResult
	Err    error
}

// GenerateFiles runs every job with at most the configured number of
// workers. Jobs are independent: a failure is reported in that job's
// result and never stops the others. Results are in job order.
func (s *ReportService) GenerateFiles(ctx context.Context, jobs []FileJob) []FileResult {
	results := make([]FileResult, len(jobs))
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, job := range jobs {
		results[i].Job = job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = s.GenerateFile(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "Batch complete",
		slog.Int("jobs", len(jobs)),
		slog.Int("failed", failed),
		slog.Int("workers", s.workers),
		slog.Duration("duration", time.Since(start)))
	return results
}

// GenerateFile formats one upload on disk. The report is rendered into a
// temporary file next to job.Output and renamed into place only on
// success, so a failed run never leaves a partial report behind.
func (s *ReportService) GenerateFile(ctx context.Context, job FileJob) (*GenerateResult, error) {
	inAbs, err := filepath.Abs(job.Input)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to resolve %s", job.Input), err)
	}
	outAbs, err := filepath.Abs(job.Output)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to resolve %s", job.Output), err)
	}
	if inAbs == outAbs {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, job.Output, ErrOutputIsInput)
	}

	in, err := os.Open(job.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("input file %s", job.Input))
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", job.Input), err)
	}
	defer in.Close()

	dir := filepath.Dir(job.Output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(job.Output)+".*.tmp")
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create output in %s", dir), err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	res, err := s.Generate(ctx, GenerateRequest{
		Name:         job.Input,
		Input:        in,
		Report:       job.Report,
		Output:       tmp,
		OutputFormat: job.OutputFormat,
	})
	if err != nil {
		return nil, err
	}

	if err := tmp.Close(); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to write %s", job.Output), err)
	}
	if err := os.Rename(tmp.Name(), job.Output); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to write %s", job.Output), err)
	}
	committed = true

	s.logger.DebugContext(ctx, "Report file written",
		slog.String("input", job.Input),
		slog.String("output", job.Output))
	return res, nil
}
