// Package config loads cardboard's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cardboard/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//  5. CARDBOARD_API_KEY and CARDBOARD_API_TOKEN override the file
//
// # Default Values
//
//   - API URL: https://api.trello.com
//   - Timeout: 10s per request
//   - Parallelism: 1 (every remote call sequential)
//   - Log level: info
//   - Log file: ~/.local/state/cardboard/cardboard.log
//
// # Example
//
//	api_key     = "your-key"
//	api_token   = "your-token"
//	timeout     = "15s"
//	parallelism = 4
//	log_level   = "debug"
//
// # Errors
//
// A missing file is not an error. Unreadable files, malformed TOML ("parse
// config") and a timeout that is not a positive Go duration ("parse
// timeout") are.
package config
