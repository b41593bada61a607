package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "formatterhub/internal/errors"
	"formatterhub/internal/report"
	"formatterhub/pkg/contracts/domain"
)

// ReportDefinition is the YAML form of a report type.
type ReportDefinition struct {
	Name       string `yaml:"name" validate:"required"`
	OutputName string `yaml:"output_name" validate:"omitempty,filename"`
	SheetName  string `yaml:"sheet_name" validate:"omitempty,max=31"`

	RequiredColumns []string            `yaml:"required_columns" validate:"dive,required"`
	Aliases         map[string]string   `yaml:"aliases" validate:"dive,keys,required,endkeys,required"`
	NumericColumns  []string            `yaml:"numeric_columns" validate:"dive,required"`
	CurrencyColumns []string            `yaml:"currency_columns" validate:"dive,required"`
	RoundCurrency   bool                `yaml:"round_currency"`
	FillDefaults    map[string]string   `yaml:"fill_defaults"`
	Derived         []DerivedDefinition `yaml:"derived" validate:"dive"`
	OutputColumns   []string            `yaml:"output_columns" validate:"dive,required"`

	GroupColumns []string              `yaml:"group_columns" validate:"required,min=1,dive,required"`
	SortColumns  []string              `yaml:"sort_columns" validate:"dive,required"`
	Aggregates   []AggregateDefinition `yaml:"aggregates" validate:"dive"`

	Label           LabelDefinition `yaml:"label"`
	GrandTotal      bool            `yaml:"grand_total"`
	GrandTotalLabel string          `yaml:"grand_total_label"`
	DropFinalBlank  bool            `yaml:"drop_final_blank"`
	EchoGroupKeys   bool            `yaml:"echo_group_keys"`

	LabelColumn     string        `yaml:"label_column"`
	ColumnWidth     float64       `yaml:"column_width" validate:"gte=0,lte=255"`
	WideColumnWidth float64       `yaml:"wide_column_width" validate:"gte=0,lte=255"`
	HeaderStyle     *domain.Style `yaml:"header_style"`
	TotalRowStyle   *domain.Style `yaml:"total_row_style"`
	CurrencyFormat  string        `yaml:"currency_format"`
}

// DerivedDefinition is the YAML form of report.Derivation.
type DerivedDefinition struct {
	Column  string   `yaml:"column" validate:"required"`
	Factors []string `yaml:"factors" validate:"required,min=1,dive,required"`
}

// AggregateDefinition is the YAML form of report.Aggregate.
type AggregateDefinition struct {
	Field  string `yaml:"field" validate:"required"`
	Column string `yaml:"column" validate:"required_unless=Func count"`
	Func   string `yaml:"func" validate:"required,oneof=sum count weighted_sum"`
	Weight string `yaml:"weight" validate:"required_if=Func weighted_sum"`
}

// LabelDefinition picks the subtotal label policy. Prefix defaults to
// "TOTAL - " when unset; an explicit empty string disables it.
type LabelDefinition struct {
	Style     string  `yaml:"style" validate:"omitempty,oneof=last composite"`
	Prefix    *string `yaml:"prefix"`
	Separator string  `yaml:"separator"`
}

// Func builds the label function.
func (l LabelDefinition) Func() report.LabelFunc {
	prefix := report.DefaultLabelPrefix
	if l.Prefix != nil {
		prefix = *l.Prefix
	}
	if l.Style == "composite" {
		sep := l.Separator
		if sep == "" {
			sep = " / "
		}
		return report.CompositeLabel(prefix, sep)
	}
	return report.LastComponentLabel(prefix)
}

// Validate checks the tags and then the engine-level consistency rules.
func (d ReportDefinition) Validate() error {
	if err := validateStruct(d); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("report %q: invalid definition", d.Name), err)
	}
	return d.ToReportConfig().Validate()
}

// ToReportConfig converts the definition into an engine configuration.
func (d ReportDefinition) ToReportConfig() report.Config {
	cfg := report.Config{
		Name:      d.Name,
		SheetName: d.SheetName,
		Normalize: report.NormalizeSpec{
			RequiredColumns: slices.Clone(d.RequiredColumns),
			Aliases:         cloneMap(d.Aliases),
			NumericColumns:  slices.Clone(d.NumericColumns),
			CurrencyColumns: slices.Clone(d.CurrencyColumns),
			FillDefaults:    cloneMap(d.FillDefaults),
			OutputColumns:   slices.Clone(d.OutputColumns),
			RoundCurrency:   d.RoundCurrency,
		},
		GroupColumns:       slices.Clone(d.GroupColumns),
		SortColumns:        slices.Clone(d.SortColumns),
		SubtotalLabel:      d.Label.Func(),
		GrandTotal:         d.GrandTotal,
		GrandTotalLabel:    d.GrandTotalLabel,
		DropFinalBlank:     d.DropFinalBlank,
		EchoGroupKeys:      d.EchoGroupKeys,
		LabelColumn:        d.LabelColumn,
		ColumnWidthDefault: d.ColumnWidth,
		ColumnWidthWide:    d.WideColumnWidth,
		CurrencyFormat:     d.CurrencyFormat,
	}
	for _, dv := range d.Derived {
		cfg.Normalize.Derived = append(cfg.Normalize.Derived, report.Derivation{
			Column:  dv.Column,
			Factors: slices.Clone(dv.Factors),
		})
	}
	for _, a := range d.Aggregates {
		cfg.Aggregates = append(cfg.Aggregates, report.Aggregate{
			Field:  a.Field,
			Column: a.Column,
			Func:   domain.AggregateFunc(a.Func),
			Weight: a.Weight,
		})
	}
	if d.HeaderStyle != nil {
		cfg.HeaderStyle = *d.HeaderStyle
	}
	if d.TotalRowStyle != nil {
		cfg.TotalRowStyle = *d.TotalRowStyle
	}
	return cfg
}

// FileName returns the output file name for the given extension, e.g.
// "Formatted_Inventory.xlsx".
func (d ReportDefinition) FileName(ext string) string {
	base := d.OutputName
	if base == "" {
		base = "Formatted_" + strings.ReplaceAll(d.Name, "-", "_")
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// reportsFile is the top-level layout of a reports YAML file.
type reportsFile struct {
	Reports []ReportDefinition `yaml:"reports"`
}

// ReportCatalog holds the report definitions available by name.
type ReportCatalog struct {
	defs  map[string]ReportDefinition
	order []string
}

// NewReportCatalog validates defs and indexes them by name. A later
// definition replaces an earlier one with the same name.
func NewReportCatalog(defs ...ReportDefinition) (*ReportCatalog, error) {
	c := &ReportCatalog{defs: make(map[string]ReportDefinition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.defs[d.Name]; !exists {
			c.order = append(c.order, d.Name)
		}
		c.defs[d.Name] = d
	}
	return c, nil
}

// Get returns the definition called name.
func (c *ReportCatalog) Get(name string) (ReportDefinition, error) {
	d, ok := c.defs[name]
	if !ok {
		return ReportDefinition{}, apperrors.NewConfigError(
			fmt.Sprintf("unknown report type %q (available: %s)", name, strings.Join(c.order, ", ")), nil)
	}
	return d, nil
}

// Names lists the report names in registration order.
func (c *ReportCatalog) Names() []string {
	return slices.Clone(c.order)
}

// LoadReportCatalog returns the built-in reports, extended or overridden by
// the definitions in path when path is not empty.
func LoadReportCatalog(path string) (*ReportCatalog, error) {
	defs := BuiltinReports()
	if path != "" {
		extra, err := LoadReportDefinitions(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, extra...)
	}
	return NewReportCatalog(defs...)
}

// LoadReportDefinitions reads a reports YAML file.
func LoadReportDefinitions(path string) ([]ReportDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read reports file %s", path), err)
	}

	var file reportsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse reports file %s", path), err)
	}
	if len(file.Reports) == 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("reports file %s defines no reports", path), nil)
	}
	return file.Reports, nil
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
