package config

import "time"

// Config holds runtime settings for the territory keeper CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the sharing server.
//   - DataDir: directory for local record storage; empty means the
//     per-user default directory.
//   - ShareID: share code or share URL to resolve and open at startup.
//   - DebounceWindow: how long field edits are coalesced before a save.
//   - ReportEndpoint: text-generation endpoint the report command posts
//     to; the API key is appended as its trailing query value.
//   - ReportAttempts: total attempts against the report endpoint when it
//     is rate-limited.
type Config struct {
	ServerEndpointAddr string
	DataDir            string
	ShareID            string
	DebounceWindow     time.Duration
	ReportEndpoint     string
	ReportAttempts     int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DataDir = ""
	c.ShareID = ""
	c.DebounceWindow = 800 * time.Millisecond
	c.ReportEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-05-20:generateContent?key="
	c.ReportAttempts = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
