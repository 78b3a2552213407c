// Package config loads the wpstores client configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicitly provided path
//  2. ~/.config/wpstores/config.toml
//  3. Built-in defaults when the file does not exist
//
// Fields that are missing or empty also fall back to defaults.
//
// # TOML Format
//
//	api_base = "https://public-api.wordpress.com"
//	app_id = "12345"
//	app_secret = "..."
//	workers = 4
//	rate_per_second = 10
//	log_level = "info"
//	poll_seconds = 60
//	session_path = "~/.config/wpstores/session.toml"
//	log_file = "~/.local/state/wpstores/wpstores.log"
//
// A negative rate_per_second disables rate limiting. When log_file is set
// logs are written there as JSON lines instead of text on stderr.
//
// # Environment
//
// WPSTORES_APP_ID and WPSTORES_APP_SECRET override app_id and app_secret so
// credentials can stay out of the file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist and TOML parse errors. A missing file is not an error.
package config
