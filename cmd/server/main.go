package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bogdanSgithub/autovitals-backend/internal/app"
	"github.com/bogdanSgithub/autovitals-backend/internal/config"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.Fatal("failed to open log file", map[string]any{
			"error": err.Error(),
		})
	}

	if err := run(cfg); err != nil {
		logger.Fatal("autovitals exited with error", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Info("autovitals stopped cleanly", nil)
}

// run serves until the process is signalled or the listener fails, then
// drains in-flight requests within cfg.ShutdownTimeout.
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- application.Run() }()

	logger.Info("autovitals started", map[string]any{
		"port":        cfg.AppPort,
		"environment": cfg.Environment,
	})

	select {
	case err := <-serveErr:
		// listener died on its own; still release mongo and the visit log
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("cleanup after server failure", map[string]any{
				"error": shutdownErr.Error(),
			})
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received", map[string]any{
		"timeout": cfg.ShutdownTimeout.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return application.Shutdown(shutdownCtx)
}
