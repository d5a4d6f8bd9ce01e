package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sun1tar/tech-ip-sem2/shared/logger"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/config"
	handlers "github.com/sun1tar/tech-ip-sem2/services/todos/internal/http"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/repository"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/service"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file (default $TODOS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("todos", "").WithError(err).Fatal("failed to load config")
	}

	logrusLogger := logger.Init("todos", cfg.LogLevel)

	// Инициализация репозитория
	repo, err := repository.NewFileTodoRepository(cfg.DataFile, logrusLogger)
	if err != nil {
		logrusLogger.WithError(err).Fatal("failed to open data file")
	}

	validator, err := validation.New()
	if err != nil {
		logrusLogger.WithError(err).Fatal("failed to compile request schemas")
	}

	// Инициализация сервиса и хендлеров
	todoService := service.NewTodoService(repo, logrusLogger)
	todoHandler := handlers.NewTodoHandler(todoService, validator, logrusLogger)
	staticHandler := handlers.NewStaticHandler(cfg.IndexFile, logrusLogger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(todoHandler, staticHandler, logrusLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrusLogger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"data_file": repo.Path(),
		}).Info("todos service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrusLogger.Info("Shutting down todos service...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrusLogger.WithError(err).Error("graceful shutdown failed")
	}
}
