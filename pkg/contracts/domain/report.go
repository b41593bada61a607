package domain

import "strings"

// GroupKey is the tuple of grouping-column values shared by a group.
type GroupKey []Value

// Equal reports whether both keys hold equal components.
func (k GroupKey) Equal(other GroupKey) bool {
	return k.Compare(other) == 0
}

// Compare orders keys component by component in declared priority.
func (k GroupKey) Compare(other GroupKey) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := Compare(k[i], other[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(other)
}

// Last returns the final key component, or null for an empty key.
func (k GroupKey) Last() Value {
	if len(k) == 0 {
		return Null()
	}
	return k[len(k)-1]
}

// Strings returns the trimmed text of every component.
func (k GroupKey) Strings() []string {
	out := make([]string, len(k))
	for i, v := range k {
		out[i] = strings.TrimSpace(v.Text())
	}
	return out
}

// AggregateFunc names a per-group aggregation.
type AggregateFunc string

const (
	AggregateSum         AggregateFunc = "sum"
	AggregateCount       AggregateFunc = "count"
	AggregateWeightedSum AggregateFunc = "weighted_sum"
)

// Valid reports whether f is a known aggregate function.
func (f AggregateFunc) Valid() bool {
	switch f {
	case AggregateSum, AggregateCount, AggregateWeightedSum:
		return true
	}
	return false
}

// AggregateValue is one computed aggregate of a summary row.
type AggregateValue struct {
	Field string
	Value float64
}

// Aggregates holds a summary row's values in aggregate declaration order.
type Aggregates []AggregateValue

// Get returns the value for field.
func (a Aggregates) Get(field string) (float64, bool) {
	for _, v := range a {
		if v.Field == field {
			return v.Value, true
		}
	}
	return 0, false
}

// Fields lists the aggregate field names in order.
func (a Aggregates) Fields() []string {
	out := make([]string, len(a))
	for i, v := range a {
		out[i] = v.Field
	}
	return out
}

// Add returns the element-wise sum of a and other. Fields only present in
// other are appended in their order.
func (a Aggregates) Add(other Aggregates) Aggregates {
	out := make(Aggregates, len(a), len(a)+len(other))
	copy(out, a)
	for _, v := range other {
		found := false
		for i := range out {
			if out[i].Field == v.Field {
				out[i].Value += v.Value
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

// RowRole tags each assembled report row.
type RowRole uint8

const (
	RoleDetail RowRole = iota
	RoleSubtotal
	RoleGrandTotal
	RoleBlank
)

// String returns the role name used in logs and tests.
func (r RowRole) String() string {
	switch r {
	case RoleDetail:
		return "detail"
	case RoleSubtotal:
		return "subtotal"
	case RoleGrandTotal:
		return "grand_total"
	case RoleBlank:
		return "blank"
	}
	return "unknown"
}

// IsTotal reports whether the role is a synthesized summary row.
func (r RowRole) IsTotal() bool {
	return r == RoleSubtotal || r == RoleGrandTotal
}

// ReportRow is one row of an assembled report. Which fields are set
// depends on Role: Detail carries Record; Subtotal carries Key, Aggregates
// and Label; GrandTotal carries Aggregates and Label; Blank carries
// nothing.
type ReportRow struct {
	Role       RowRole
	Record     Record
	Key        GroupKey
	Aggregates Aggregates
	Label      string
}

// DetailRow wraps an input record.
func DetailRow(r Record) ReportRow {
	return ReportRow{Role: RoleDetail, Record: r}
}

// SubtotalRow builds the summary row closing a group.
func SubtotalRow(key GroupKey, aggs Aggregates, label string) ReportRow {
	return ReportRow{Role: RoleSubtotal, Key: key, Aggregates: aggs, Label: label}
}

// GrandTotalRow builds the final report-wide summary row.
func GrandTotalRow(aggs Aggregates, label string) ReportRow {
	return ReportRow{Role: RoleGrandTotal, Aggregates: aggs, Label: label}
}

// BlankRow builds a separator row.
func BlankRow() ReportRow {
	return ReportRow{Role: RoleBlank}
}
