package config

import "formatterhub/pkg/contracts/domain"

// BuiltinReports returns the inventory, products-sold and orders reports.
func BuiltinReports() []ReportDefinition {
	return []ReportDefinition{
		inventoryReport(),
		productsSoldReport(),
		ordersReport(),
	}
}

func inventoryReport() ReportDefinition {
	columns := []string{
		"Name", "Wholesale Price", "Brand", "Product Line",
		"Classification", "Listing State", "Available Inventory (Units)",
	}
	return ReportDefinition{
		Name:            ReportInventory,
		OutputName:      OutputInventory,
		RequiredColumns: columns,
		Aliases:         map[string]string{"Wholesale Price ($)": "Wholesale Price"},
		NumericColumns:  []string{"Available Inventory (Units)"},
		CurrencyColumns: []string{"Wholesale Price"},
		RoundCurrency:   true,
		FillDefaults:    map[string]string{"Product Line": UncategorizedLabel},
		OutputColumns:   columns,
		GroupColumns:    []string{"Brand", "Product Line"},
		SortColumns:     []string{"Brand", "Product Line", "Name"},
		Aggregates: []AggregateDefinition{
			{Field: "Available Inventory (Units)", Column: "Available Inventory (Units)", Func: string(domain.AggregateSum)},
		},
		EchoGroupKeys:   true,
		LabelColumn:     "Name",
		ColumnWidth:     30,
		WideColumnWidth: 60,
	}
}

func productsSoldReport() ReportDefinition {
	columns := []string{
		"Product", "Brand", "Product Line", "Shelf Inventory",
		"Wholesale Price", "Amount Sold (Units)", "Amount Sold (Cases)",
	}
	return ReportDefinition{
		Name:            ReportProductsSold,
		OutputName:      OutputProductsSold,
		RequiredColumns: columns,
		NumericColumns:  []string{"Amount Sold (Units)"},
		CurrencyColumns: []string{"Wholesale Price"},
		FillDefaults:    map[string]string{"Product Line": UncategorizedLabel},
		OutputColumns:   columns,
		GroupColumns:    []string{"Brand", "Product Line"},
		SortColumns:     []string{"Brand", "Product Line", "Product"},
		Aggregates: []AggregateDefinition{
			{Field: "Amount Sold (Units)", Column: "Amount Sold (Units)", Func: string(domain.AggregateSum)},
			{Field: "Dollars Sold", Column: "Wholesale Price", Func: string(domain.AggregateWeightedSum), Weight: "Amount Sold (Units)"},
		},
		LabelColumn:     "Product",
		ColumnWidth:     28,
		WideColumnWidth: 60,
	}
}

func ordersReport() ReportDefinition {
	return ReportDefinition{
		Name:            ReportOrders,
		OutputName:      OutputOrders,
		RequiredColumns: []string{"Customer", "Brand"},
		Aliases: map[string]string{
			"Buyer Name":            "Customer",
			"Product Count (Units)": "Qty (Units)",
			"Quantity":              "Qty (Units)",
			"Total":                 "Line Item Total",
			"Total Price":           "Line Item Total",
		},
		NumericColumns:  []string{"Qty (Units)"},
		CurrencyColumns: []string{"Unit Price", "Line Item Total"},
		Derived: []DerivedDefinition{
			{Column: "Line Item Total", Factors: []string{"Unit Price", "Qty (Units)"}},
		},
		OutputColumns: []string{"Customer", "Brand", "Qty (Units)", "Line Item Total"},
		GroupColumns:  []string{"Customer"},
		SortColumns:   []string{"Customer", "Brand"},
		Aggregates: []AggregateDefinition{
			{Field: "Qty (Units)", Column: "Qty (Units)", Func: string(domain.AggregateSum)},
			{Field: "Line Item Total", Column: "Line Item Total", Func: string(domain.AggregateSum)},
		},
		GrandTotalLabel: OrdersGrandTotal,
		LabelColumn:     "Customer",
		ColumnWidth:     28,
		WideColumnWidth: 60,
	}
}
