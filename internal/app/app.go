package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/config"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"
)

type App struct {
	httpServer  *http.Server
	stopSweeper context.CancelFunc
	cleanup     func(context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewMemoryStore()

	router, err := setupHTTP(cfg, mongoBackends(infra, sessions))
	if err != nil {
		_ = infra.Close(context.Background())
		return nil, err
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	if cfg.SessionSweepEvery > 0 {
		go sessions.RunSweeper(sweepCtx, cfg.SessionSweepEvery, func(removed int) {
			logger.Debug("expired sessions swept", map[string]any{
				"removed":   removed,
				"remaining": sessions.Len(),
			})
		})
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer:  server,
		stopSweeper: stopSweeper,
		cleanup:     infra.Close,
	}, nil
}

// Run serves until Shutdown is called.
func (a *App) Run() error {
	err := a.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	a.stopSweeper()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup(ctx)
	}
	return nil
}
