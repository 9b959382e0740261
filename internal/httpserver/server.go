// internal/httpserver/server.go
//
// HTTP surface for the live round.
// Responsibilities:
//   - Router + middleware (request IDs, CORS, timeouts, panic recovery, JSON).
//   - Public endpoints: "/", "/health", "/state", "/leaderboard".
//   - Archive endpoints: mounted under /rounds.
//   - Live stream: "/stream" (server-sent events, no handler timeout).
//   - Operator endpoints under /admin (JWT via bearer or cookie).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the admin cookie works.
//   - Every engine call carries the request context; a stopped engine is 503.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/engine"
	"github.com/robalobadob/wordle-live/internal/live"
	"github.com/robalobadob/wordle-live/internal/realtime"
	"github.com/robalobadob/wordle-live/internal/store"
)

const handlerTimeout = 10 * time.Second

// Engine is the part of engine.Loop the HTTP layer drives.
type Engine interface {
	live.Sink
	Snapshot(ctx context.Context) (engine.Snapshot, error)
	Leaderboard(ctx context.Context) ([]engine.LeaderboardEntry, error)
	ForceReveal(ctx context.Context) (bool, error)
	Restart(ctx context.Context) error
}

type Options struct {
	ClientOrigin string
	Admin        AdminConfig
}

// Server bundles the router with the engine, archive and stream fan-out.
type Server struct {
	r       *chi.Mux
	engine  Engine
	archive store.Store
	bc      *realtime.Broadcaster
	admin   AdminConfig
	seq     *live.Sequencer
	logger  zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
// seq is shared with the relay client so injected and relayed events never share a number.
func New(eng Engine, archive store.Store, bc *realtime.Broadcaster, seq *live.Sequencer, opts Options, logger zerolog.Logger) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		engine:  eng,
		archive: archive,
		bc:      bc,
		admin:   opts.Admin,
		seq:     seq,
		logger:  logger,
	}

	// --- middleware ---
	s.r.Use(RequestID(logger))
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{opts.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	// SSE must outlive the handler timeout.
	s.r.Get("/stream", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordle-live","endpoints":["/health","/state","/leaderboard","/rounds","/stream","/admin/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/state", s.handleState)
		r.Get("/leaderboard", s.handleLeaderboard)

		s.mountRounds(r)
		s.mountAdmin(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- live state ----------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Snapshot(r.Context())
	if err != nil {
		s.engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.Leaderboard(r.Context())
	if err != nil {
		s.engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// engineError maps loop failures to HTTP statuses.
func (s *Server) engineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrStopped):
		http.Error(w, `{"error":"engine_stopped"}`, http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		http.Error(w, `{"error":"timeout"}`, http.StatusGatewayTimeout)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("engine call")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
