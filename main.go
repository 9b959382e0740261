package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-live/internal/config"
	"github.com/robalobadob/wordle-live/internal/engine"
	fxmodules "github.com/robalobadob/wordle-live/internal/fx"
	"github.com/robalobadob/wordle-live/internal/httpserver"
	"github.com/robalobadob/wordle-live/internal/live"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(run),
	).Run()
}

// run starts the engine loop, the relay client (if any) and the HTTP server
// as one group: the first to fail stops the others and the process.
func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	loop *engine.Loop,
	relay *live.Client,
	server *httpserver.Server,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Cancelling ctx also ends open /stream requests.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error { return loop.Run(gctx) })
			if relay != nil {
				g.Go(func() error { return relay.Run(gctx) })
			}
			g.Go(func() error {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			go func() {
				defer close(done)
				err := g.Wait()
				if ctx.Err() != nil {
					return
				}
				// Something stopped on its own; take the process down.
				if errors.Is(err, engine.ErrDictionaryUnavailable) {
					logger.Error().Err(err).Msg("no word can be drawn, giving up")
				} else if err != nil {
					logger.Error().Err(err).Msg("service failed")
				}
				_ = shutdowner.Shutdown(fx.ExitCode(1))
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info().Msg("shutting down")
			cancel()
			select {
			case <-done:
				logger.Info().Msg("server stopped gracefully")
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
