package report

import (
	"fmt"
	"slices"
	"strings"

	apperrors "formatterhub/internal/errors"
	"formatterhub/pkg/contracts/domain"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultSheetName       = "Formatted"
	DefaultLabelPrefix     = "TOTAL - "
	DefaultGrandTotalLabel = "GRAND TOTAL"
	DefaultColumnWidth     = 28.0
	DefaultWideWidth       = 60.0
	DefaultHeaderColor     = "FF0000"
	DefaultCurrencyFormat  = "$#,##0.00"
	DefaultFreezeCell      = "A2"
)

// DefaultHeaderStyle is the red, bold, centered header row.
func DefaultHeaderStyle() domain.Style {
	return domain.Style{
		Bold:            true,
		FontColor:       DefaultHeaderColor,
		HorizontalAlign: "center",
		VerticalAlign:   "center",
	}
}

// DefaultTotalRowStyle is applied across every cell of a summary row.
func DefaultTotalRowStyle() domain.Style {
	return domain.Style{Bold: true}
}

// NormalizeSpec describes how a raw upload is coerced into the report's
// schema. See Normalize for the order the steps run in.
type NormalizeSpec struct {
	RequiredColumns []string
	// Aliases maps an alternate header to its canonical name.
	Aliases         map[string]string
	NumericColumns  []string
	CurrencyColumns []string
	// FillDefaults maps a column to the label used for blank cells.
	FillDefaults  map[string]string
	Derived       []Derivation
	OutputColumns []string
	RoundCurrency bool
}

// Derivation materializes Column as the product of Factors when the
// upload does not carry it.
type Derivation struct {
	Column  string
	Factors []string
}

// Aggregate is one per-group computation. Field names the result; it is
// written into the column of the same name, which is appended to the
// report when the table has no such column.
type Aggregate struct {
	Field  string
	Column string
	Func   domain.AggregateFunc
	// Weight is the multiplier column of a weighted_sum.
	Weight string
}

// LabelFunc renders the label of a group's subtotal row.
type LabelFunc func(key domain.GroupKey) string

// LastComponentLabel labels a group by its final key component, e.g.
// "TOTAL - Gummies" for the key (Brand X, Gummies).
func LastComponentLabel(prefix string) LabelFunc {
	return func(key domain.GroupKey) string {
		return prefix + strings.TrimSpace(key.Last().Text())
	}
}

// CompositeLabel labels a group by every key component joined with sep.
func CompositeLabel(prefix, sep string) LabelFunc {
	return func(key domain.GroupKey) string {
		return prefix + strings.Join(key.Strings(), sep)
	}
}

// Config fully parameterizes one report type.
type Config struct {
	Name      string
	SheetName string
	Normalize NormalizeSpec

	GroupColumns []string
	// SortColumns extends GroupColumns with tie-break columns. When set it
	// must start with GroupColumns.
	SortColumns []string
	Aggregates  []Aggregate

	SubtotalLabel   LabelFunc
	GrandTotal      bool
	GrandTotalLabel string
	DropFinalBlank  bool
	EchoGroupKeys   bool

	// LabelColumn receives subtotal and grand total labels; empty means the
	// first report column.
	LabelColumn        string
	ColumnWidthDefault float64
	ColumnWidthWide    float64
	HeaderStyle        domain.Style
	TotalRowStyle      domain.Style
	CurrencyFormat     string
}

// WithDefaults returns a copy of c with unset presentation fields filled.
func (c Config) WithDefaults() Config {
	if c.SheetName == "" {
		c.SheetName = DefaultSheetName
	}
	if c.SubtotalLabel == nil {
		c.SubtotalLabel = LastComponentLabel(DefaultLabelPrefix)
	}
	if c.GrandTotalLabel == "" {
		c.GrandTotalLabel = DefaultGrandTotalLabel
	}
	if c.ColumnWidthDefault <= 0 {
		c.ColumnWidthDefault = DefaultColumnWidth
	}
	if c.ColumnWidthWide <= 0 {
		c.ColumnWidthWide = DefaultWideWidth
	}
	if c.HeaderStyle.IsZero() {
		c.HeaderStyle = DefaultHeaderStyle()
	}
	if c.TotalRowStyle.IsZero() {
		c.TotalRowStyle = DefaultTotalRowStyle()
	}
	if c.CurrencyFormat == "" {
		c.CurrencyFormat = DefaultCurrencyFormat
	}
	return c
}

// sortColumns returns the effective sort key.
func (c Config) sortColumns() []string {
	if len(c.SortColumns) > 0 {
		return c.SortColumns
	}
	return c.GroupColumns
}

// Validate checks that the configuration is internally consistent and that
// every column it groups, sorts, aggregates or labels on is guaranteed to
// exist after normalization.
func (c Config) Validate() error {
	if len(c.GroupColumns) == 0 {
		return configError(c.Name, "no group columns")
	}
	if len(c.SortColumns) > 0 {
		if len(c.SortColumns) < len(c.GroupColumns) || !slices.Equal(c.SortColumns[:len(c.GroupColumns)], c.GroupColumns) {
			return configError(c.Name, "sort columns must start with the group columns")
		}
	}

	for _, d := range c.Normalize.Derived {
		if d.Column == "" || len(d.Factors) == 0 {
			return configError(c.Name, "derived column needs a name and at least one factor")
		}
	}

	reachable := c.Normalize.schema()
	check := func(role, col string) error {
		if !reachable(col) {
			return configError(c.Name, fmt.Sprintf("%s column %q is not produced by normalization", role, col))
		}
		return nil
	}

	for _, col := range c.sortColumns() {
		if err := check("group", col); err != nil {
			return err
		}
	}
	if c.LabelColumn != "" {
		if err := check("label", c.LabelColumn); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(c.Aggregates))
	for _, agg := range c.Aggregates {
		if agg.Field == "" {
			return configError(c.Name, "aggregate without a field name")
		}
		if seen[agg.Field] {
			return configError(c.Name, fmt.Sprintf("duplicate aggregate field %q", agg.Field))
		}
		seen[agg.Field] = true

		if !agg.Func.Valid() {
			return configError(c.Name, fmt.Sprintf("aggregate %q: unknown function %q", agg.Field, agg.Func))
		}
		if agg.Func != domain.AggregateCount && agg.Column == "" {
			return configError(c.Name, fmt.Sprintf("aggregate %q: %s needs a column", agg.Field, agg.Func))
		}
		if agg.Func == domain.AggregateWeightedSum && agg.Weight == "" {
			return configError(c.Name, fmt.Sprintf("aggregate %q: weighted_sum needs a weight column", agg.Field))
		}
		if agg.Column != "" {
			if err := check("aggregate", agg.Column); err != nil {
				return err
			}
		}
		if agg.Weight != "" {
			if err := check("weight", agg.Weight); err != nil {
				return err
			}
		}
	}
	return nil
}

// schema returns a predicate for columns guaranteed to exist after
// normalization. With OutputColumns set the schema is exactly that list;
// otherwise it is every column normalization requires or materializes.
func (s NormalizeSpec) schema() func(string) bool {
	if len(s.OutputColumns) > 0 {
		return func(col string) bool { return slices.Contains(s.OutputColumns, col) }
	}

	set := make(map[string]bool)
	for _, group := range [][]string{s.RequiredColumns, s.NumericColumns, s.CurrencyColumns} {
		for _, col := range group {
			set[col] = true
		}
	}
	for _, d := range s.Derived {
		set[d.Column] = true
	}
	for col := range s.FillDefaults {
		set[col] = true
	}
	return func(col string) bool { return set[col] }
}

func configError(name, msg string) error {
	if name != "" {
		msg = fmt.Sprintf("report %q: %s", name, msg)
	}
	return apperrors.NewConfigError(msg, nil)
}
