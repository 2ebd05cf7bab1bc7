package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/bootstrap"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

const shutdownTimeout = 15 * time.Second

// server is satisfied by *http.Server.
type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

type serverBuilder func() (server, func(), error)

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests. It returns the process exit code.
func Run(ctx context.Context, build serverBuilder, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe() }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		lg.Error().Err(err).Msg("server stopped")
		return 1
	case <-ctx.Done():
		lg.Info().Msg("shutting down")
	}

	started := time.Now()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed; closing connections")
		_ = srv.Close()
	}
	<-served

	lg.Info().Dur("took", time.Since(started)).Msg("shutdown complete")
	return 0
}

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	build := func() (server, func(), error) {
		srv, cleanup, err := bootstrap.NewServer()
		if err != nil {
			return nil, nil, err
		}
		logger.Logger.Info().Str("addr", srv.Addr).Msg("listening")
		return srv, cleanup, nil
	}

	code := Run(ctx, build, logger.Logger)
	stop()
	os.Exit(code)
}
