package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "formatterhub/internal/errors"
	"formatterhub/pkg/contracts/domain"
)

// Format identifies an upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the upload format from the file name, falling back to
// sniffing the first bytes for the ZIP container every XLSX file uses.
func DetectFormat(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadOptions controls how an upload becomes a table.
type ReadOptions struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string
	// Comma is the CSV field delimiter; zero means ','.
	Comma rune
	// InferNumbers turns cells that parse as numbers into Int/Float values.
	InferNumbers bool
}

// DefaultReadOptions returns the options used by the CLI and services.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{InferNumbers: true}
}

// ReadTable reads the first row of the upload as the header and every
// following non-blank row as a record. Empty cells become null values.
func ReadTable(r io.Reader, format Format, opts ReadOptions) (domain.Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case FormatXLSX:
		rows, err = readXLSXRows(r, opts.Sheet)
	case FormatCSV, "":
		rows, err = readCSVRows(r, opts.Comma)
	default:
		return domain.Table{}, apperrors.NewParsingError(fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return domain.Table{}, err
	}

	return buildTable(rows, opts.InferNumbers)
}

func readCSVRows(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if comma != 0 {
		reader.Comma = comma
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV", err)
	}
	return rows, nil
}

func readXLSXRows(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rows, nil
}

func buildTable(rows [][]string, infer bool) (domain.Table, error) {
	// Leading blank rows carry no header.
	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return domain.Table{}, apperrors.NewParsingError("upload has no header row", nil)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	headers := buildHeaders(rows[0], width)

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(domain.Record, width)
		for i, cell := range row {
			rec[i] = cellValue(cell, infer)
		}
		records = append(records, rec)
	}

	return domain.NewTable(headers, records), nil
}

// buildHeaders cleans header names, names blank or missing headers
// Column_N and suffixes duplicates with .1, .2 and so on.
func buildHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(raw) {
			h = CleanHeader(raw[i])
		}
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}

func cellValue(cell string, infer bool) domain.Value {
	if strings.TrimSpace(cell) == "" {
		return domain.Null()
	}
	if infer {
		trimmed := strings.TrimSpace(cell)
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return domain.Int(i)
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && isPlainNumber(trimmed) {
			return domain.Float(f)
		}
	}
	return domain.String(cell)
}

// isPlainNumber rejects strings ParseFloat accepts but a spreadsheet user
// would not call a number, such as "NaN", "Inf" or hex floats.
func isPlainNumber(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
