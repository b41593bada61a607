package report

import (
	"fmt"

	"formatterhub/pkg/contracts/domain"
)

// Result is everything one generation produced. Callers normally only
// need Plan; the intermediate stages are kept for logging and tests.
type Result struct {
	Table  domain.Table
	Groups []Group
	Rows   []domain.ReportRow
	Plan   domain.RenderDirective
}

// Generate runs the whole pipeline: validate, normalize, group, assemble
// and plan. It performs no I/O. On error nothing partial is returned.
func Generate(raw domain.Table, cfg Config) (*Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := Normalize(raw, cfg.Normalize)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	groups, err := GroupTable(table, GroupSpec{
		GroupColumns: cfg.GroupColumns,
		SortColumns:  cfg.SortColumns,
		Aggregates:   cfg.Aggregates,
	})
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}

	fields := make([]string, len(cfg.Aggregates))
	for i, agg := range cfg.Aggregates {
		fields[i] = agg.Field
	}
	rows := Assemble(groups, AssembleOptions{
		Label:           cfg.SubtotalLabel,
		GrandTotal:      cfg.GrandTotal,
		GrandTotalLabel: cfg.GrandTotalLabel,
		DropFinalBlank:  cfg.DropFinalBlank,
		Fields:          fields,
	})

	plan := BuildPlan(rows, table.Columns, PlanOptions{
		SheetName:       cfg.SheetName,
		LabelColumn:     cfg.LabelColumn,
		GroupColumns:    cfg.GroupColumns,
		EchoGroupKeys:   cfg.EchoGroupKeys,
		Aggregates:      cfg.Aggregates,
		IntegerColumns:  cfg.Normalize.NumericColumns,
		CurrencyColumns: cfg.Normalize.CurrencyColumns,
		CurrencyFormat:  cfg.CurrencyFormat,
		DefaultWidth:    cfg.ColumnWidthDefault,
		WideWidth:       cfg.ColumnWidthWide,
		HeaderStyle:     cfg.HeaderStyle,
		TotalRowStyle:   cfg.TotalRowStyle,
	})

	return &Result{Table: table, Groups: groups, Rows: rows, Plan: plan}, nil
}
