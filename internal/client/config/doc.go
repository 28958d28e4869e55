// Package config loads runtime configuration for the territory keeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string       base URL of the sharing server
//	-d string       data directory for local record storage
//	-share string   share code or share URL to open at startup
//	-w int          debounce window for field edits (milliseconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "800ms" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "data_dir": "/home/alice/.territorykeeper",
//	  "debounce_window": "800ms",
//	  "report_endpoint": "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-05-20:generateContent?key=",
//	  "report_attempts": 5
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
