package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/server"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context) error {
	logger := config.GetLogger()

	svc := service.NewDashboardService(nil)
	srv, cleanup := server.New(ctx, svc)
	defer cleanup()

	stop := svc.Start(ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("Graceful shutdown failed", "error", err)
		}
	}()

	logger.Infow("Starting Chennai weather dashboard", "addr", srv.Addr, "refresh_interval", config.GetRefreshInterval())
	return srv.ListenAndServe()
}
