// Package config provides configuration management for the formatter.
// It loads application settings and the catalog of report definitions.
//
// # Configuration Sources
//
// Application settings are built from the following sources, later ones
// winning:
//
//	1. Default values
//	2. A YAML file (formatter.yaml, configs/formatter.yaml, or $FMT_CONFIG)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern FMT_* for namespacing:
//
//	FMT_LOGGING_LEVEL=debug
//	FMT_OUTPUT_DIR=/srv/reports
//	FMT_BATCH_WORKERS=8
//	FMT_REPORTS_FILE=reports.yaml
//
// # Report Definitions
//
// Report types are data, not code. The built-in inventory, products-sold
// and orders definitions can be extended or replaced with a YAML file:
//
//	reports:
//	  - name: by-region
//	    required_columns: [Region, Rep, Sales]
//	    currency_columns: [Sales]
//	    group_columns: [Region, Rep]
//	    aggregates:
//	      - {field: Sales, column: Sales, func: sum}
//
// Definitions are validated with struct tags first and then against the
// engine's own consistency rules, so a bad definition fails at startup
// instead of on the first upload.
package config
