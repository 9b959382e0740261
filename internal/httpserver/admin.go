// internal/httpserver/admin.go
//
// Operator endpoints:
//   - POST /admin/login           → {password}; sets auth cookie, returns token
//   - POST /admin/logout          → clears auth cookie
//   - POST /admin/reveal          → force the round to reveal the solution
//   - POST /admin/restart         → force a fresh round
//   - POST /admin/events/{kind}   → inject a chat/gift/social/like/roomUser event
//
// There is one operator; the bcrypt hash comes from configuration. With no
// hash configured every admin route answers 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordle-live/internal/live"
)

const (
	adminSubject    = "operator"
	maxEventBody    = 64 << 10
	defaultJWTHours = 12
)

type AdminConfig struct {
	JWTSecret    string
	JWTExpiry    time.Duration
	PasswordHash string
	CookieName   string // default "wordle_live_token"
	SecureCookie bool
}

func (a AdminConfig) enabled() bool { return a.PasswordHash != "" }

func (a AdminConfig) cookieName() string {
	if a.CookieName != "" {
		return a.CookieName
	}
	return "wordle_live_token"
}

func (a AdminConfig) expiry() time.Duration {
	if a.JWTExpiry > 0 {
		return a.JWTExpiry
	}
	return defaultJWTHours * time.Hour
}

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.adminEnabled)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth())
			r.Post("/reveal", s.handleReveal)
			r.Post("/restart", s.handleRestart)
			r.Post("/events/{kind}", s.handleInject)
		})
	})
}

func (s *Server) adminEnabled(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.admin.enabled() {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- session -----------------------------------

type loginReq struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if !checkPassword(s.admin.PasswordHash, body.Password) {
		zerolog.Ctx(r.Context()).Warn().Msg("admin login rejected")
		http.Error(w, `{"error":"Invalid password"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.signJWT()
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "expiresAt": exp.UTC()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ------------------------------- controls ----------------------------------

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	revealed, err := s.engine.ForceReveal(r.Context())
	if err != nil {
		s.engineError(w, r, err)
		return
	}
	if !revealed {
		http.Error(w, `{"error":"no_active_round"}`, http.StatusConflict)
		return
	}
	zerolog.Ctx(r.Context()).Info().Msg("operator forced reveal")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Restart(r.Context()); err != nil {
		s.engineError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Msg("operator restarted round")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleInject feeds a relay-shaped event into the engine.
func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	data, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, `{"error":"read_failed"}`, http.StatusBadRequest)
		return
	}
	if err := live.Deliver(s.engine, s.seq, kind, data); err != nil {
		if errors.Is(err, live.ErrUnknownEvent) {
			http.Error(w, `{"error":"unknown_event"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 operator token.
func (s *Server) signJWT() (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.admin.expiry())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": adminSubject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.admin.JWTSecret))
	return ss, exp, err
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.authCookie(token, exp))
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	c := s.authCookie("", time.Time{})
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (s *Server) authCookie(value string, exp time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.admin.SecureCookie {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     s.admin.cookieName(),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.admin.SecureCookie,
		SameSite: sameSite,
		Expires:  exp,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.admin.cookieName()); err == nil {
		return c.Value
	}
	return ""
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ---------------------------- auth middleware ------------------------------

// requireAuth enforces a valid operator JWT.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := s.bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.admin.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			if sub, _ := claims["sub"].(string); sub != adminSubject {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
