package report

import (
	"math"
	"slices"

	"github.com/xuri/excelize/v2"

	"formatterhub/pkg/contracts/domain"
)

// PlanOptions carries the presentation settings of a report.
type PlanOptions struct {
	SheetName      string
	LabelColumn    string
	GroupColumns   []string
	EchoGroupKeys  bool
	Aggregates     []Aggregate
	IntegerColumns []string
	// CurrencyColumns get CurrencyFormat, as do weighted sums and sums of
	// currency columns.
	CurrencyColumns []string
	CurrencyFormat  string
	DefaultWidth    float64
	WideWidth       float64
	HeaderStyle     domain.Style
	TotalRowStyle   domain.Style
}

// BuildPlan turns assembled rows into a render directive. columns are the
// normalized table columns; aggregate fields that are not among them are
// appended as trailing report columns.
func BuildPlan(rows []domain.ReportRow, columns []string, opts PlanOptions) domain.RenderDirective {
	names := append([]string(nil), columns...)
	for _, agg := range opts.Aggregates {
		if !slices.Contains(names, agg.Field) {
			names = append(names, agg.Field)
		}
	}

	labelCol := opts.LabelColumn
	if labelCol == "" && len(names) > 0 {
		labelCol = names[0]
	}

	plan := domain.RenderDirective{
		SheetName:   opts.SheetName,
		Columns:     make([]domain.ColumnDirective, len(names)),
		HeaderStyle: opts.HeaderStyle,
		Rows:        make([]domain.RowDirective, 0, len(rows)),
		FreezeCell:  DefaultFreezeCell,
	}
	if plan.SheetName == "" {
		plan.SheetName = DefaultSheetName
	}

	for i, name := range names {
		width := opts.DefaultWidth
		if name == labelCol {
			width = opts.WideWidth
		}
		col := domain.ColumnDirective{Name: name, Width: width}
		if opts.isCurrency(name) {
			col.NumberFormat = opts.CurrencyFormat
		}
		plan.Columns[i] = col
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	lastFilled := 0
	for _, row := range rows {
		cells := make([]domain.Value, len(names))
		var style *domain.Style

		switch row.Role {
		case domain.RoleDetail:
			copy(cells, row.Record)
		case domain.RoleSubtotal, domain.RoleGrandTotal:
			if row.Role == domain.RoleSubtotal && opts.EchoGroupKeys {
				for i, col := range opts.GroupColumns {
					if j, ok := index[col]; ok && i < len(row.Key) {
						cells[j] = row.Key[i]
					}
				}
			}
			for _, agg := range row.Aggregates {
				if j, ok := index[agg.Field]; ok {
					cells[j] = opts.aggregateValue(agg)
				}
			}
			if j, ok := index[labelCol]; ok {
				cells[j] = domain.String(row.Label)
			}
			s := opts.TotalRowStyle
			style = &s
		}

		plan.Rows = append(plan.Rows, domain.RowDirective{Role: row.Role, Cells: cells, Style: style})
		if row.Role != domain.RoleBlank {
			lastFilled = len(plan.Rows)
		}
	}

	if len(names) > 0 {
		// Header is sheet row 1, so body row n is sheet row n+1.
		end, _ := excelize.CoordinatesToCellName(len(names), lastFilled+1)
		plan.AutoFilter = "A1:" + end
	}
	return plan
}

func (o PlanOptions) isCurrency(name string) bool {
	if slices.Contains(o.CurrencyColumns, name) {
		return true
	}
	for _, agg := range o.Aggregates {
		if agg.Field != name {
			continue
		}
		switch agg.Func {
		case domain.AggregateWeightedSum:
			return true
		case domain.AggregateSum:
			return slices.Contains(o.CurrencyColumns, agg.Column)
		}
	}
	return false
}

// aggregateValue renders counts and sums of integer columns as integers so
// they display without a decimal part.
func (o PlanOptions) aggregateValue(v domain.AggregateValue) domain.Value {
	for _, agg := range o.Aggregates {
		if agg.Field != v.Field {
			continue
		}
		integral := agg.Func == domain.AggregateCount ||
			(agg.Func == domain.AggregateSum && slices.Contains(o.IntegerColumns, agg.Column))
		if integral && v.Value == math.Trunc(v.Value) && math.Abs(v.Value) < math.MaxInt64 {
			return domain.Int(int64(v.Value))
		}
	}
	return domain.Float(v.Value)
}
