package report

import "formatterhub/pkg/contracts/domain"

// AssembleOptions controls summary rows.
type AssembleOptions struct {
	Label           LabelFunc
	GrandTotal      bool
	GrandTotalLabel string
	DropFinalBlank  bool
	// Fields seeds the grand total with zeros so it carries every field even
	// when there are no groups.
	Fields []string
}

// Assemble lays groups out as report rows: each group's details, then its
// subtotal, then a blank separator. The grand total, when requested, is the
// element-wise sum of the subtotals and is always the last row.
func Assemble(groups []Group, opts AssembleOptions) []domain.ReportRow {
	label := opts.Label
	if label == nil {
		label = LastComponentLabel(DefaultLabelPrefix)
	}

	size := 0
	for _, g := range groups {
		size += len(g.Rows) + 2
	}
	rows := make([]domain.ReportRow, 0, size+1)

	total := make(domain.Aggregates, 0, len(opts.Fields))
	for _, f := range opts.Fields {
		total = append(total, domain.AggregateValue{Field: f})
	}

	for i, g := range groups {
		for _, rec := range g.Rows {
			rows = append(rows, domain.DetailRow(rec))
		}
		rows = append(rows, domain.SubtotalRow(g.Key, g.Aggregates, label(g.Key)))
		total = total.Add(g.Aggregates)

		if i < len(groups)-1 || !opts.DropFinalBlank {
			rows = append(rows, domain.BlankRow())
		}
	}

	if opts.GrandTotal {
		name := opts.GrandTotalLabel
		if name == "" {
			name = DefaultGrandTotalLabel
		}
		rows = append(rows, domain.GrandTotalRow(total, name))
	}
	return rows
}
