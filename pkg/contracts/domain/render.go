package domain

// Style is a declarative cell style understood by spreadsheet writers.
// Colors are RGB hex strings without the leading '#'.
type Style struct {
	Bold            bool   `yaml:"bold" validate:"-"`
	FontColor       string `yaml:"font_color" validate:"omitempty,hexadecimal,len=6"`
	FillColor       string `yaml:"fill_color" validate:"omitempty,hexadecimal,len=6"`
	HorizontalAlign string `yaml:"horizontal_align" validate:"omitempty,oneof=left center right"`
	VerticalAlign   string `yaml:"vertical_align" validate:"omitempty,oneof=top center bottom"`
}

// IsZero reports whether the style changes nothing.
func (s Style) IsZero() bool { return s == Style{} }

// ColumnDirective describes one output column.
type ColumnDirective struct {
	Name         string
	Width        float64
	NumberFormat string
}

// RowDirective is one body row of the sheet. Style is nil for rows
// rendered without emphasis.
type RowDirective struct {
	Role  RowRole
	Cells []Value
	Style *Style
}

// RenderDirective is the complete, I/O-free description of a formatted
// sheet. Row 1 of the sheet is the header built from Columns; Rows start
// at sheet row 2.
type RenderDirective struct {
	SheetName   string
	Columns     []ColumnDirective
	HeaderStyle Style
	Rows        []RowDirective
	FreezeCell  string
	AutoFilter  string
}

// ColumnNames returns the header labels in order.
func (d RenderDirective) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// CountRole counts rows carrying role.
func (d RenderDirective) CountRole(role RowRole) int {
	n := 0
	for _, r := range d.Rows {
		if r.Role == role {
			n++
		}
	}
	return n
}
