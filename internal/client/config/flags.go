package config

import (
	"flag"
	"os"
	"time"

	"territorykeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string       base URL of the sharing server (default from Config)
//	-d string       data directory for local record storage
//	-share string   share code or URL to open at startup
//	-w int          debounce window in milliseconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-share", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the sharing server")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for local record storage")
	fs.StringVar(&cfg.ShareID, "share", cfg.ShareID, "share code or URL to open at startup")
	debounceWindow := fs.Int("w", int(cfg.DebounceWindow.Milliseconds()), "debounce window (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceWindow = time.Duration(*debounceWindow) * time.Millisecond
}
