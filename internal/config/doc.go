// Package config loads the storefront's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/storefront/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	catalog_url = "https://api.escuelajs.co/api/v1"
//	auth_url = "https://reqres.in/api"
//	auth_api_key = ""                      # sent as x-api-key when set
//	profile_id = 4                         # profile loaded after login/register
//	request_timeout_seconds = 10
//	storage = "file"                       # or "redis"
//	state_dir = "~/.local/share/storefront"
//	redis_addr = "127.0.0.1:6379"
//	redis_password = ""
//	redis_db = 0
//	log_level = "info"
//	log_format = "console"                 # or "json"
//	refresh_interval_seconds = 60
//	metrics_addr = "127.0.0.1:9464"
//
// Every field is optional. Tilde expansion is performed on state_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and an unknown storage backend. A missing
// file is not an error.
package config
