package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "formatterhub/internal/errors"
	"formatterhub/internal/report"
	"formatterhub/pkg/contracts/domain"
)

func TestBuiltinReports_Valid(t *testing.T) {
	for _, def := range BuiltinReports() {
		t.Run(def.Name, func(t *testing.T) {
			assert.NoError(t, def.Validate())
		})
	}
}

func TestReportCatalog(t *testing.T) {
	catalog, err := LoadReportCatalog("")
	require.NoError(t, err)

	assert.Equal(t, []string{ReportInventory, ReportProductsSold, ReportOrders}, catalog.Names())

	def, err := catalog.Get(ReportOrders)
	require.NoError(t, err)
	assert.Equal(t, "Formatted_Order_Report.xlsx", def.FileName("xlsx"))

	_, err = catalog.Get("payroll")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "inventory, products-sold, orders")
}

func TestLoadReportCatalog_FileOverridesBuiltin(t *testing.T) {
	path := writeFile(t, "reports.yaml", `
reports:
  - name: orders
    required_columns: [Customer, Brand]
    numeric_columns: [Qty]
    group_columns: [Customer]
    aggregates:
      - field: Qty
        column: Qty
        func: sum
    grand_total: true
  - name: by-region
    output_name: Regional
    required_columns: [Region, Rep, Sales]
    currency_columns: [Sales]
    group_columns: [Region, Rep]
    label:
      style: composite
      prefix: "Subtotal: "
      separator: " | "
    aggregates:
      - field: Sales
        column: Sales
        func: sum
      - field: Lines
        func: count
    header_style:
      bold: true
      fill_color: DDEBF7
`)

	catalog, err := LoadReportCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{ReportInventory, ReportProductsSold, ReportOrders, "by-region"}, catalog.Names())

	orders, err := catalog.Get(ReportOrders)
	require.NoError(t, err)
	assert.True(t, orders.GrandTotal)
	assert.Equal(t, "Formatted_orders.csv", orders.FileName(".csv"))

	region, err := catalog.Get("by-region")
	require.NoError(t, err)
	cfg := region.ToReportConfig()
	assert.Equal(t, "Subtotal: West | Ann", cfg.SubtotalLabel(domain.GroupKey{domain.String("West"), domain.String("Ann")}))
	assert.Equal(t, "DDEBF7", cfg.HeaderStyle.FillColor)
	assert.Equal(t, domain.AggregateCount, cfg.Aggregates[1].Func)
	assert.Equal(t, "Regional.xlsx", region.FileName("xlsx"))
}

func TestLoadReportDefinitions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "unknown key",
			content: "reports:\n  - name: x\n    group_by: [A]\n",
			wantMsg: "failed to parse",
		},
		{
			name:    "empty file",
			content: "reports: []\n",
			wantMsg: "defines no reports",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReportDefinitions(writeFile(t, "reports.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := LoadReportDefinitions("/does/not/exist.yaml")
	assert.True(t, apperrors.IsConfigError(err))
}

func TestReportDefinition_Validate(t *testing.T) {
	base := func() ReportDefinition {
		return ReportDefinition{
			Name:            "sales",
			RequiredColumns: []string{"Rep", "Price", "Units"},
			GroupColumns:    []string{"Rep"},
			Aggregates: []AggregateDefinition{
				{Field: "Revenue", Column: "Price", Func: "weighted_sum", Weight: "Units"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ReportDefinition)
		wantErr string
	}{
		{"valid", func(*ReportDefinition) {}, ""},
		{"missing name", func(d *ReportDefinition) { d.Name = "" }, "name is required"},
		{"no group columns", func(d *ReportDefinition) { d.GroupColumns = nil }, "group_columns is required"},
		{"unknown func", func(d *ReportDefinition) { d.Aggregates[0].Func = "avg" }, "func must be one of"},
		{"weighted sum needs weight", func(d *ReportDefinition) { d.Aggregates[0].Weight = "" }, "weight is required"},
		{"bad output name", func(d *ReportDefinition) { d.OutputName = "../escape" }, "output_name must be a valid filename"},
		{"bad color", func(d *ReportDefinition) { d.HeaderStyle = &domain.Style{FontColor: "red"} }, "font_color"},
		{"unreachable group column", func(d *ReportDefinition) { d.GroupColumns = []string{"Region"} }, "not produced by normalization"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := base()
			tt.mutate(&def)

			err := def.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// The built-in orders definition reproduces the grand total report.
func TestOrdersDefinition_EndToEnd(t *testing.T) {
	def := ordersReport()
	def.GrandTotal = true

	raw := domain.NewTable(
		[]string{" Buyer Name ", "Brand", "Product Count (Units)", "Total"},
		[]domain.Record{
			{domain.String("Zed"), domain.String("X"), domain.String("1"), domain.String("$2.00")},
			{domain.String("Acme"), domain.String("Y"), domain.String("2"), domain.String("$5.00")},
			{domain.String("Acme"), domain.String("X"), domain.String("3"), domain.String("$10.00")},
		},
	)

	res, err := report.Generate(raw, def.ToReportConfig())
	require.NoError(t, err)

	plan := res.Plan
	assert.Equal(t, []string{"Customer", "Brand", "Qty (Units)", "Line Item Total"}, plan.ColumnNames())
	// sorted by Customer then Brand
	assert.Equal(t, "X", plan.Rows[0].Cells[1].Text())
	assert.Equal(t, "TOTAL - Acme", plan.Rows[2].Cells[0].Text())
	last := plan.Rows[len(plan.Rows)-1]
	assert.Equal(t, domain.RoleGrandTotal, last.Role)
	assert.Equal(t, OrdersGrandTotal, last.Cells[0].Text())
	assert.Equal(t, domain.Int(6), last.Cells[2])
	assert.Equal(t, domain.Float(17), last.Cells[3])
	assert.Equal(t, 60.0, plan.Columns[0].Width)
}

func TestOrdersDefinition_DerivesTotalFromUnitPrice(t *testing.T) {
	raw := domain.NewTable(
		[]string{"Buyer Name", "Brand", "Quantity", "Unit Price"},
		[]domain.Record{{domain.String("Acme"), domain.String("X"), domain.Int(4), domain.String("$2.50")}},
	)

	res, err := report.Generate(raw, ordersReport().ToReportConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.Float(10), res.Table.Value(0, "Line Item Total"))
}

func TestInventoryDefinition_EchoesGroupKeys(t *testing.T) {
	raw := domain.NewTable(
		[]string{"Name", "Wholesale Price ($)", "Brand", "Product Line", "Classification", "Listing State", "Available Inventory (Units)"},
		[]domain.Record{
			{domain.String("Sour Worms"), domain.String("$3.499"), domain.String("Brand X"), domain.Null(), domain.String("Edible"), domain.String("Live"), domain.String("12")},
			{domain.String("Bears"), domain.Float(2), domain.String("Brand X"), domain.Null(), domain.String("Edible"), domain.String("Live"), domain.Int(3)},
		},
	)

	res, err := report.Generate(raw, inventoryReport().ToReportConfig())
	require.NoError(t, err)

	rows := res.Plan.Rows
	assert.Equal(t, "Bears", rows[0].Cells[0].Text(), "sorted by name within the group")
	assert.Equal(t, domain.Float(3.5), rows[1].Cells[1])

	sub := rows[2]
	assert.Equal(t, domain.RoleSubtotal, sub.Role)
	assert.Equal(t, "TOTAL - Uncategorized", sub.Cells[0].Text())
	assert.Equal(t, "Brand X", sub.Cells[2].Text())
	assert.Equal(t, "Uncategorized", sub.Cells[3].Text())
	assert.Equal(t, domain.Int(15), sub.Cells[6])
	assert.Equal(t, 30.0, res.Plan.Columns[1].Width)
}

func TestProductsSoldDefinition_DollarsSold(t *testing.T) {
	raw := domain.NewTable(
		[]string{"Product", "Brand", "Product Line", "Shelf Inventory", "Wholesale Price", "Amount Sold (Units)", "Amount Sold (Cases)"},
		[]domain.Record{
			{domain.String("A"), domain.String("B"), domain.String("L"), domain.Int(1), domain.String("$2.00"), domain.Int(10), domain.Int(1)},
			{domain.String("C"), domain.String("B"), domain.String("L"), domain.Int(1), domain.String("$1.50"), domain.Int(4), domain.Int(0)},
		},
	)

	res, err := report.Generate(raw, productsSoldReport().ToReportConfig())
	require.NoError(t, err)

	plan := res.Plan
	assert.Equal(t, "Dollars Sold", plan.Columns[7].Name)
	assert.Equal(t, report.DefaultCurrencyFormat, plan.Columns[7].NumberFormat)
	sub := plan.Rows[2]
	assert.Equal(t, domain.Int(14), sub.Cells[5])
	assert.Equal(t, domain.Float(26), sub.Cells[7])
}
