package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/cli"
	"github.com/BuzzLyutic/todo-tasks/internal/config"
	"github.com/BuzzLyutic/todo-tasks/internal/kv"
	"github.com/BuzzLyutic/todo-tasks/internal/repo"
	"github.com/BuzzLyutic/todo-tasks/internal/service"
	"github.com/BuzzLyutic/todo-tasks/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	level := cfg.Logger.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	// Logs go to stderr; stdout stays clean for command output.
	log := logger.New(logger.Config{Level: level, Encoding: "console"})
	defer log.Sync()

	ctx := context.Background()
	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		return 1
	}
	defer store.Close()

	svc := service.NewTaskService(repo.NewTaskRepo(store, cfg.Storage.Key, log), log)
	svc.Load(ctx)

	if err := cli.NewRootCmd(&cli.App{Service: svc, Locale: cfg.SortLocale}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
