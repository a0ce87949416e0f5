package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/web"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server *http.Server
	web    *web.App
	logger logger.Logger
}

func NewApp(server *http.Server, webApp *web.App, log logger.Logger) *App {
	return &App{
		server: server,
		web:    webApp,
		logger: log,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting server", "addr", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	a.web.Warm(ctx)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	a.logger.Info(context.Background(), "server stopped")
	return nil
}
