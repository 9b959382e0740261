package fx

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/robalobadob/wordle-live/internal/config"
	"github.com/robalobadob/wordle-live/internal/engine"
	"github.com/robalobadob/wordle-live/internal/game"
	"github.com/robalobadob/wordle-live/internal/httpserver"
	"github.com/robalobadob/wordle-live/internal/live"
	"github.com/robalobadob/wordle-live/internal/logger"
	"github.com/robalobadob/wordle-live/internal/realtime"
	"github.com/robalobadob/wordle-live/internal/store"
	"github.com/robalobadob/wordle-live/internal/words"
)

const archiveTimeout = 5 * time.Second

func ProvideDictionary(cfg *config.Config, logger zerolog.Logger) *words.Dictionary {
	var remote words.DefinitionSource
	if cfg.DictionaryAPIURL != "" {
		remote = words.NewRemote(cfg.DictionaryAPIURL)
	}
	return words.New(cfg.Words, remote, logger)
}

func ProvideStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	if cfg.ArchiveDBPath == "" {
		return store.NewMemoryStore(store.DefaultCapacity), nil
	}
	st, err := store.OpenSQLite(cfg.ArchiveDBPath, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return st.Close() },
	})
	return st, nil
}

// ProvideLoop wires engine updates to the stream fan-out and finished
// rounds to the archive. Neither hook blocks the loop on I/O.
func ProvideLoop(cfg *config.Config, dict *words.Dictionary, archive store.Store, bc *realtime.Broadcaster, logger zerolog.Logger) *engine.Loop {
	hooks := engine.Hooks{
		OnUpdate: func(topics []engine.Topic, snap engine.Snapshot) {
			msg, err := realtime.Encode(engine.TopicNames(topics...), snap)
			if err != nil {
				logger.Error().Err(err).Msg("encode snapshot")
				return
			}
			bc.Publish(msg)
		},
		OnRoundOver: func(res game.Result) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
				defer cancel()
				if err := archive.Save(ctx, res); err != nil {
					logger.Error().Err(err).Str("round_id", res.RoundID).Msg("archive round")
				}
			}()
		},
		OnPhase: func(from, to engine.Phase) {
			logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("phase")
		},
	}
	return engine.NewLoop(cfg.Engine, dict, engine.SystemClock(), logger, hooks)
}

func ProvideSequencer() *live.Sequencer { return &live.Sequencer{} }

// ProvideRelay returns nil when no relay is configured.
func ProvideRelay(cfg *config.Config, loop *engine.Loop, seq *live.Sequencer, logger zerolog.Logger) *live.Client {
	if cfg.RelayURL == "" {
		logger.Info().Msg("no LIVE_RELAY_URL, relay client disabled")
		return nil
	}
	return live.NewClient(live.ClientConfig{
		URL:      cfg.RelayURL,
		UniqueID: cfg.RelayUniqueID,
	}, loop, seq, logger)
}

func ProvideServer(cfg *config.Config, loop *engine.Loop, archive store.Store, bc *realtime.Broadcaster, seq *live.Sequencer, logger zerolog.Logger) *httpserver.Server {
	return httpserver.New(loop, archive, bc, seq, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		Admin: httpserver.AdminConfig{
			JWTSecret:    cfg.JWTSecret,
			JWTExpiry:    cfg.JWTExpiry,
			PasswordHash: cfg.AdminPasswordHash,
			CookieName:   cfg.CookieName,
			SecureCookie: cfg.CookieSecure,
		},
	}, logger)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// domain
	fx.Provide(ProvideDictionary),
	fx.Provide(ProvideStore),
	fx.Provide(realtime.NewBroadcaster),
	fx.Provide(ProvideSequencer),
	fx.Provide(ProvideLoop),
	// transport
	fx.Provide(ProvideRelay),
	fx.Provide(ProvideServer),
)
