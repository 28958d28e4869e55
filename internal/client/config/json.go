package config

import (
	"encoding/json"
	"os"
	"time"

	"territorykeeper/internal/flagx"
	"territorykeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "800ms" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	DataDir            string         `json:"data_dir"`
	DebounceWindow     timex.Duration `json:"debounce_window"`
	ReportEndpoint     string         `json:"report_endpoint"`
	ReportAttempts     int            `json:"report_attempts"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config; zero values are
//     skipped so the JSON file may set only a subset.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.DebounceWindow.Duration != 0 {
		cfg.DebounceWindow = time.Duration(jc.DebounceWindow.Duration)
	}
	if jc.ReportEndpoint != "" {
		cfg.ReportEndpoint = jc.ReportEndpoint
	}
	if jc.ReportAttempts != 0 {
		cfg.ReportAttempts = jc.ReportAttempts
	}
}
