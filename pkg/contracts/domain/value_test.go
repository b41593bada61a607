package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"numbers compare numerically", Int(9), Float(10), -1},
		{"int and float equal", Int(3), Float(3), 0},
		{"strings compare by text", String("Acme"), String("Zed"), -1},
		{"surrounding whitespace ignored", String("  Acme "), String("Acme"), 0},
		{"null sorts with empty string", Null(), String(""), 0},
		{"null before text", Null(), String("a"), -1},
		{"numbers sort before text", Int(10), String("9"), -1},
		{"blank string equals null", String("  "), Null(), 0},
		{"nfc equivalent forms equal", String("Caf\u00e9"), String("Cafe\u0301"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestValue_Text(t *testing.T) {
	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "42", Int(42).Text())
	assert.Equal(t, "2.5", Float(2.5).Text())
	assert.Equal(t, "x", String("x").Text())
	assert.True(t, String("   ").IsBlank())
	assert.False(t, Int(0).IsBlank())
	assert.Nil(t, Null().Interface())
}

func TestGroupKey(t *testing.T) {
	k := GroupKey{String("X"), String("Gummies")}

	assert.True(t, k.Equal(GroupKey{String("X "), String("Gummies")}))
	assert.Equal(t, "Gummies", k.Last().Text())
	assert.Equal(t, []string{"X", "Gummies"}, k.Strings())
	assert.Negative(t, GroupKey{String("A")}.Compare(GroupKey{String("B")}))
	assert.True(t, GroupKey{}.Last().IsNull())
}

func TestAggregates_Add(t *testing.T) {
	a := Aggregates{{Field: "Qty", Value: 5}, {Field: "Total", Value: 15}}
	b := Aggregates{{Field: "Qty", Value: 1}, {Field: "Total", Value: 2}, {Field: "Extra", Value: 1}}

	sum := a.Add(b)

	assert.Equal(t, []string{"Qty", "Total", "Extra"}, sum.Fields())
	qty, ok := sum.Get("Qty")
	assert.True(t, ok)
	assert.Equal(t, 6.0, qty)
	total, _ := sum.Get("Total")
	assert.Equal(t, 17.0, total)
	// receiver is untouched
	orig, _ := a.Get("Qty")
	assert.Equal(t, 5.0, orig)
}

func TestTable_Project(t *testing.T) {
	tbl := NewTable([]string{"A", "B", "C"}, []Record{{String("a"), Int(1)}})

	assert.Len(t, tbl.Rows[0], 3)
	assert.True(t, tbl.Rows[0][2].IsNull())

	p := tbl.Project([]string{"C", "A", "Z"})
	assert.Equal(t, []string{"C", "A", "Z"}, p.Columns)
	assert.Equal(t, "a", p.Rows[0][1].Text())
	assert.True(t, p.Rows[0][2].IsNull())
}

func TestRowRole_String(t *testing.T) {
	assert.Equal(t, "detail", RoleDetail.String())
	assert.Equal(t, "subtotal", RoleSubtotal.String())
	assert.Equal(t, "grand_total", RoleGrandTotal.String())
	assert.Equal(t, "blank", RoleBlank.String())
	assert.True(t, RoleGrandTotal.IsTotal())
	assert.False(t, RoleBlank.IsTotal())
}
