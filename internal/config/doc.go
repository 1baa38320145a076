// Package config handles loading and parsing the gcpsettings configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gcpsettings/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - API base: https://www.google.com/cloudprint
//   - Event log: ~/.local/share/gcpsettings/events.log
//   - Request timeout: 10s
//   - Copies choices: 1, 2, 3, 4, 5
//
// # Example
//
//	api_base = "https://www.google.com/cloudprint"
//	client_id = "1234.apps.googleusercontent.com"
//	client_secret = "..."
//	copies = [1, 2, 5, 10]
//
//	[[accounts]]
//	name = "ada@example.com"
//	refresh_token = "1//0g..."
//
// Account type defaults to "com.google". An account may carry a fixed
// access_token instead of a refresh_token; it is used as-is and never refreshed.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML and invalid
// request_timeout values are returned as errors wrapped with "parse config" or
// "open config" so the caller can abort startup.
package config
