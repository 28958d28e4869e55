package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"territorykeeper/internal/buildinfo"
	"territorykeeper/internal/client/cli"
	"territorykeeper/internal/client/config"
	"territorykeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
