package domain

// Record is one table row, positionally aligned with Table.Columns.
type Record []Value

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Table is an ordered sequence of records sharing one column list.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable builds a table, padding or truncating every row to the
// column count.
func NewTable(columns []string, rows []Record) Table {
	t := Table{Columns: append([]string(nil), columns...), Rows: make([]Record, 0, len(rows))}
	for _, row := range rows {
		t.Rows = append(t.Rows, fit(row, len(columns)))
	}
	return t
}

func fit(row Record, n int) Record {
	out := make(Record, n)
	copy(out, row)
	return out
}

// Index returns the position of column name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries column name.
func (t Table) Has(name string) bool { return t.Index(name) >= 0 }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Value returns the cell at row i in column name; null when the column
// does not exist.
func (t Table) Value(i int, name string) Value {
	idx := t.Index(name)
	if idx < 0 || idx >= len(t.Rows[i]) {
		return Null()
	}
	return t.Rows[i][idx]
}

// Clone deep-copies the table so the result can be mutated freely.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = fit(row, len(t.Columns))
	}
	return out
}

// AddColumn appends a column whose cells are produced by fill.
func (t *Table) AddColumn(name string, fill func(row Record) Value) {
	t.Columns = append(t.Columns, name)
	for i, row := range t.Rows {
		t.Rows[i] = append(row, fill(row))
	}
}

// Project keeps only the named columns, in the given order. Unknown
// names produce null columns.
func (t Table) Project(columns []string) Table {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.Index(c)
	}
	out := Table{Columns: append([]string(nil), columns...), Rows: make([]Record, len(t.Rows))}
	for r, row := range t.Rows {
		rec := make(Record, len(columns))
		for i, j := range idx {
			if j >= 0 && j < len(row) {
				rec[i] = row[j]
			}
		}
		out.Rows[r] = rec
	}
	return out
}

// Column returns a copy of every value in column name, or nil when the
// column does not exist.
func (t Table) Column(name string) []Value {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}
