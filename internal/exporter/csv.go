package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"formatterhub/pkg/contracts/domain"
)

// CSVWriter renders a report plan as CSV. Styling is dropped; money
// columns are written as formatted text.
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a CSV writer that resolves relative file paths
// against outputDir.
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write renders plan to w.
func (c *CSVWriter) Write(w io.Writer, plan domain.RenderDirective, options WriteOptions) error {
	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(plan.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(plan.Columns))
	for i, row := range plan.Rows {
		for j, col := range plan.Columns {
			record[j] = ""
			if j < len(row.Cells) {
				record[j] = formatCell(row.Cells[j], col.NumberFormat)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile renders plan to filePath, creating parent directories.
func (c *CSVWriter) WriteFile(filePath string, plan domain.RenderDirective, options WriteOptions) error {
	fullPath := c.resolvePath(filePath)

	slog.Debug("Writing CSV report",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("row_count", len(plan.Rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := c.Write(file, plan, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// resolvePath resolves a relative path against the output directory
func (c *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || c.outputDir == "" {
		return filePath
	}
	return filepath.Join(c.outputDir, filePath)
}
