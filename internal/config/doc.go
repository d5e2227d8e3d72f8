// Package config loads diptych's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/diptych/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// Numeric settings distinguish "absent" from zero, so `gap = 0` or
// `overscan_rows = 0` are honoured.
//
// # TOML Format
//
//	api_bind   = "127.0.0.1:8080"
//	epoch_unit = "seconds"          # or "millis"
//	log_level  = "info"
//	log_file   = "~/.local/state/diptych/diptych.log"
//
//	[left]
//	collection = "photos"
//	filter     = "all"
//
//	[right]
//	collection = "photos"
//	filter     = "all"
//
//	[grid]
//	gap               = 1
//	overscan_rows     = 5
//	reset_threshold   = 20
//	scrollbar_reserve = 1
//	date_strip        = 1
//
//	[tracker]
//	settle_ms = 150
//	banner_ms = 3000
//
//	[timeline]
//	debounce_ms = 300
//	min_items   = 20
//	orientation = "newest-top"
//
//	[dates]
//	timezone      = "Local"
//	month_layout  = "January 2006"
//	banner_layout = "02/01/2006"
//	month_names   = []
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and invalid values (unknown epoch unit,
// orientation, log level or time zone, negative sizes, a month_names list
// that does not hold twelve names). The caller treats all of them as fatal at
// startup.
package config
