package config

import "time"

// Application constants
const (
	AppName = "formatter-hub"

	// EnvPrefix namespaces every environment variable, e.g. FMT_LOGGING_LEVEL.
	EnvPrefix = "FMT"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/formatter.log"
	DefaultOutputDir = "."

	DefaultWorkers      = 4
	DefaultBatchTimeout = 5 * time.Minute

	// Built-in report names
	ReportInventory    = "inventory"
	ReportProductsSold = "products-sold"
	ReportOrders       = "orders"

	// Output file names of the built-in reports
	OutputInventory    = "Formatted_Inventory"
	OutputProductsSold = "Formatted_Products_Sold"
	OutputOrders       = "Formatted_Order_Report"

	UncategorizedLabel = "Uncategorized"
	OrdersGrandTotal   = "GRAND TOTAL (ALL CUSTOMERS)"
)
