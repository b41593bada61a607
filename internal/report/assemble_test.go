package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formatterhub/pkg/contracts/domain"
)

func twoGroups() []Group {
	return []Group{
		{
			Key:        domain.GroupKey{domain.String("Acme")},
			Rows:       []domain.Record{{domain.String("Acme")}, {domain.String("Acme")}},
			Aggregates: domain.Aggregates{{Field: "Qty", Value: 5}, {Field: "Total", Value: 15}},
		},
		{
			Key:        domain.GroupKey{domain.String("Zed")},
			Rows:       []domain.Record{{domain.String("Zed")}},
			Aggregates: domain.Aggregates{{Field: "Qty", Value: 1}, {Field: "Total", Value: 2}},
		},
	}
}

func roles(rows []domain.ReportRow) []domain.RowRole {
	out := make([]domain.RowRole, len(rows))
	for i, r := range rows {
		out[i] = r.Role
	}
	return out
}

func TestAssemble_Roles(t *testing.T) {
	tests := []struct {
		name string
		opts AssembleOptions
		want []domain.RowRole
	}{
		{
			name: "defaults",
			want: []domain.RowRole{
				domain.RoleDetail, domain.RoleDetail, domain.RoleSubtotal, domain.RoleBlank,
				domain.RoleDetail, domain.RoleSubtotal, domain.RoleBlank,
			},
		},
		{
			name: "drop final blank",
			opts: AssembleOptions{DropFinalBlank: true},
			want: []domain.RowRole{
				domain.RoleDetail, domain.RoleDetail, domain.RoleSubtotal, domain.RoleBlank,
				domain.RoleDetail, domain.RoleSubtotal,
			},
		},
		{
			name: "grand total",
			opts: AssembleOptions{GrandTotal: true},
			want: []domain.RowRole{
				domain.RoleDetail, domain.RoleDetail, domain.RoleSubtotal, domain.RoleBlank,
				domain.RoleDetail, domain.RoleSubtotal, domain.RoleBlank, domain.RoleGrandTotal,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roles(Assemble(twoGroups(), tt.opts)))
		})
	}
}

func TestAssemble_GrandTotalSumsSubtotals(t *testing.T) {
	rows := Assemble(twoGroups(), AssembleOptions{GrandTotal: true, GrandTotalLabel: "GRAND TOTAL (ALL CUSTOMERS)"})

	last := rows[len(rows)-1]
	require.Equal(t, domain.RoleGrandTotal, last.Role)
	assert.Equal(t, "GRAND TOTAL (ALL CUSTOMERS)", last.Label)

	qty, ok := last.Aggregates.Get("Qty")
	require.True(t, ok)
	assert.Equal(t, 6.0, qty)
	total, _ := last.Aggregates.Get("Total")
	assert.Equal(t, 17.0, total)

	var subtotals int
	for _, r := range rows {
		if r.Role == domain.RoleSubtotal {
			subtotals++
		}
	}
	assert.Equal(t, 2, subtotals)
}

func TestAssemble_EmptyGrandTotal(t *testing.T) {
	rows := Assemble(nil, AssembleOptions{GrandTotal: true, Fields: []string{"Qty", "Total"}})

	require.Len(t, rows, 1)
	assert.Equal(t, DefaultGrandTotalLabel, rows[0].Label)
	assert.Equal(t, []string{"Qty", "Total"}, rows[0].Aggregates.Fields())
}
