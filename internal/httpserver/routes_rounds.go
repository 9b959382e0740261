// internal/httpserver/routes_rounds.go
//
// Read-only view of the round archive:
//   - GET /rounds       → most recent results first (?limit=, default 20, max 200)
//   - GET /rounds/{id}  → one result by round ID

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/store"
)

const (
	defaultRoundsLimit = 20
	maxRoundsLimit     = store.DefaultCapacity
)

func (s *Server) mountRounds(r chi.Router) {
	r.Route("/rounds", func(r chi.Router) {
		r.Get("/", s.handleRecentRounds)
		r.Get("/{id}", s.handleRound)
	})
}

func (s *Server) handleRecentRounds(w http.ResponseWriter, r *http.Request) {
	limit := defaultRoundsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, maxRoundsLimit)
	}

	results, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("recent rounds")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(results)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	res, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("get round")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}
