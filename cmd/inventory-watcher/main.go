package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"assetpipe/internal/config"
	"assetpipe/internal/logger"
	"assetpipe/internal/pipeline"
	"assetpipe/internal/rules"
	"assetpipe/internal/storage"
	"assetpipe/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := logger.New(cfg.LogLevel)

	ruleSet, err := rules.Load(cfg.RulesPath)
	must(err)

	if err := os.MkdirAll(cfg.InboxDir, 0o755); err != nil {
		must(err)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := watcher.NewService(db, cfg, pipeline.NewService(db, cfg, ruleSet), log)
	log.Info("inventory watcher started",
		"inbox", cfg.InboxDir,
		"interval_sec", cfg.WatchIntervalSec)
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
