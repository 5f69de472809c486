package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wineetl/pkg/api"
	"wineetl/pkg/config"
	"wineetl/pkg/pipeline"
)

// Example:
//   go run ./cmd/examples/Wine_API --config config.example.yaml --addr :8000

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	flag.Parse()

	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}))
	runner, err := pipeline.NewRunner(cfg, pipeline.WithLogger(logger))
	if err != nil {
		logger.Error("create runner", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(runner, cfg.ReportDir, logger)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
