package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/df07/go-raycaster/web/server"
)

func main() {
	config := server.DefaultConfig()
	pflag.IntVar(&config.Port, "port", config.Port, "port to serve on")
	pflag.StringVar(&config.ScenesDir, "scenes", config.ScenesDir, "directory of scene files to offer")
	pflag.IntVar(&config.MaxWorkers, "max-workers", config.MaxWorkers, "upper bound on tiles in flight per render (0 = CPU count)")
	verbose := pflag.BoolP("verbose", "v", false, "log every request")
	pflag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.NewServer(config, logger).Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
