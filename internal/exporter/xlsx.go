package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"formatterhub/pkg/contracts/domain"
)

// XLSXWriter renders a report plan into a single-sheet workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// styleKey identifies a distinct cell style within one workbook.
type styleKey struct {
	style  domain.Style
	numFmt string
}

// sheetBuilder holds per-workbook state so XLSXWriter itself stays
// stateless and safe for concurrent use.
type sheetBuilder struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

// Write renders plan and streams the workbook to w.
func (x *XLSXWriter) Write(w io.Writer, plan domain.RenderDirective) error {
	f, err := x.Build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile renders plan to filePath, creating parent directories.
func (x *XLSXWriter) WriteFile(filePath string, plan domain.RenderDirective) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := x.Build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Build renders plan into an in-memory workbook. The caller must Close it.
func (x *XLSXWriter) Build(plan domain.RenderDirective) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := plan.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	b := &sheetBuilder{f: f, sheet: sheet, styles: make(map[styleKey]int)}
	if err := b.render(plan); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (b *sheetBuilder) render(plan domain.RenderDirective) error {
	if len(plan.Columns) == 0 {
		return nil
	}

	if err := b.columns(plan.Columns); err != nil {
		return err
	}
	if err := b.header(plan); err != nil {
		return err
	}

	for i, row := range plan.Rows {
		if err := b.row(i+2, row, plan.Columns); err != nil {
			return err
		}
	}

	if plan.FreezeCell != "" {
		if err := b.freeze(plan.FreezeCell); err != nil {
			return err
		}
	}
	if plan.AutoFilter != "" {
		if err := b.f.AutoFilter(b.sheet, plan.AutoFilter, nil); err != nil {
			return fmt.Errorf("failed to set autofilter %s: %w", plan.AutoFilter, err)
		}
	}
	return nil
}

func (b *sheetBuilder) columns(cols []domain.ColumnDirective) error {
	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if col.Width > 0 {
			if err := b.f.SetColWidth(b.sheet, name, name, col.Width); err != nil {
				return fmt.Errorf("failed to set width of column %s: %w", name, err)
			}
		}
		if col.NumberFormat != "" {
			id, err := b.styleID(domain.Style{}, col.NumberFormat)
			if err != nil {
				return err
			}
			if err := b.f.SetColStyle(b.sheet, name, id); err != nil {
				return fmt.Errorf("failed to set style of column %s: %w", name, err)
			}
		}
	}
	return nil
}

func (b *sheetBuilder) header(plan domain.RenderDirective) error {
	values := make([]interface{}, len(plan.Columns))
	for i, col := range plan.Columns {
		values[i] = col.Name
	}
	if err := b.f.SetSheetRow(b.sheet, "A1", &values); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	id, err := b.styleID(plan.HeaderStyle, "")
	if err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(plan.Columns), 1)
	return b.f.SetCellStyle(b.sheet, "A1", end, id)
}

func (b *sheetBuilder) row(sheetRow int, row domain.RowDirective, cols []domain.ColumnDirective) error {
	if row.Role == domain.RoleBlank {
		return nil
	}

	for j, col := range cols {
		cell, err := excelize.CoordinatesToCellName(j+1, sheetRow)
		if err != nil {
			return err
		}

		if j < len(row.Cells) && !row.Cells[j].IsNull() {
			if err := b.f.SetCellValue(b.sheet, cell, row.Cells[j].Interface()); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}

		// Styled rows cover every column, empty cells included.
		if row.Style != nil {
			id, err := b.styleID(*row.Style, col.NumberFormat)
			if err != nil {
				return err
			}
			if err := b.f.SetCellStyle(b.sheet, cell, cell, id); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}
	return nil
}

func (b *sheetBuilder) freeze(cell string) error {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return fmt.Errorf("invalid freeze cell %q: %w", cell, err)
	}

	panes := &excelize.Panes{
		Freeze:      true,
		XSplit:      col - 1,
		YSplit:      row - 1,
		TopLeftCell: cell,
	}
	switch {
	case panes.XSplit > 0 && panes.YSplit > 0:
		panes.ActivePane = "bottomRight"
	case panes.XSplit > 0:
		panes.ActivePane = "topRight"
	default:
		panes.ActivePane = "bottomLeft"
	}
	return b.f.SetPanes(b.sheet, panes)
}

// styleID returns a cached excelize style for s combined with numFmt.
func (b *sheetBuilder) styleID(s domain.Style, numFmt string) (int, error) {
	key := styleKey{style: s, numFmt: numFmt}
	if id, ok := b.styles[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if s.Bold || s.FontColor != "" {
		style.Font = &excelize.Font{Bold: s.Bold, Color: s.FontColor}
	}
	if s.FillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{s.FillColor}, Pattern: 1}
	}
	if s.HorizontalAlign != "" || s.VerticalAlign != "" {
		style.Alignment = &excelize.Alignment{Horizontal: s.HorizontalAlign, Vertical: s.VerticalAlign}
	}
	if numFmt != "" {
		fmtCopy := numFmt
		style.CustomNumFmt = &fmtCopy
	}

	id, err := b.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	b.styles[key] = id
	return id, nil
}
