package exporter

import "formatterhub/pkg/contracts/domain"

func samplePlan() domain.RenderDirective {
	bold := domain.Style{Bold: true}
	return domain.RenderDirective{
		SheetName: "Formatted",
		Columns: []domain.ColumnDirective{
			{Name: "Customer", Width: 60},
			{Name: "Brand", Width: 28},
			{Name: "Qty (Units)", Width: 28},
			{Name: "Line Item Total", Width: 28, NumberFormat: "$#,##0.00"},
		},
		HeaderStyle: domain.Style{Bold: true, FontColor: "FF0000", HorizontalAlign: "center", VerticalAlign: "center"},
		Rows: []domain.RowDirective{
			{Role: domain.RoleDetail, Cells: []domain.Value{domain.String("Acme"), domain.String("X"), domain.Int(3), domain.Float(10)}},
			{Role: domain.RoleDetail, Cells: []domain.Value{domain.String("Acme"), domain.String("Y"), domain.Int(2), domain.Float(1234.5)}},
			{Role: domain.RoleSubtotal, Style: &bold, Cells: []domain.Value{domain.String("TOTAL - Acme"), domain.Null(), domain.Int(5), domain.Float(1244.5)}},
			{Role: domain.RoleBlank, Cells: make([]domain.Value, 4)},
			{Role: domain.RoleGrandTotal, Style: &bold, Cells: []domain.Value{domain.String("GRAND TOTAL"), domain.Null(), domain.Int(5), domain.Float(1244.5)}},
		},
		FreezeCell: "A2",
		AutoFilter: "A1:D6",
	}
}
