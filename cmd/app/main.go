package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/config"
	"github.com/BuzzLyutic/todo-tasks/internal/handler"
	"github.com/BuzzLyutic/todo-tasks/internal/kv"
	"github.com/BuzzLyutic/todo-tasks/internal/repo"
	"github.com/BuzzLyutic/todo-tasks/internal/service"
	"github.com/BuzzLyutic/todo-tasks/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	defer log.Sync()

	store, err := kv.Open(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.Close()
	log.Info("storage opened", zap.String("backend", cfg.Storage.Backend), zap.String("key", cfg.Storage.Key))

	taskService := service.NewTaskService(repo.NewTaskRepo(store, cfg.Storage.Key, log), log)
	taskService.Load(context.Background())

	taskHandler := handler.NewTaskHandler(taskService, log, cfg.SortLocale)

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(taskHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
