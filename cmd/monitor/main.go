package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/apistatus/internal/config"
	"github.com/hamed0406/apistatus/internal/httpapi"
	"github.com/hamed0406/apistatus/internal/logging"
	"github.com/hamed0406/apistatus/internal/probe"
	"github.com/hamed0406/apistatus/internal/repo/sqlite"
	"github.com/hamed0406/apistatus/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	// Config problems fail before any monitoring begins.
	endpoints, err := config.LoadEndpoints(cfg.EndpointsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Println("logging:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.New(cfg.DBPath, logger)
	if err != nil {
		logger.Error("store_open_error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "store:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	monitor := scheduler.New(logger, endpoints, store, store, probe.NewHTTPChecker())
	if err := monitor.Start(context.Background()); err != nil {
		logger.Error("monitor_start_error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "monitor:", err)
		return 1
	}

	api := httpapi.NewServer(logger, store, monitor, cfg.WebDir)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve_error", zap.Error(err))
			monitor.Stop()
			return 1
		}
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server_shutdown_error", zap.Error(err))
	}
	monitor.Stop()
	return 0
}
