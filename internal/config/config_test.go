package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, k := range []string{"PORT", "COOKIE_SECURE", "COOKIE_NAME", "PARTICIPATION_PHRASE", "ROUND_DURATION", "PREPARE_DELAY", "LIVE_RELAY_URL", "WORDS_ANSWERS_FILE", "JWT_EXPIRES_HOURS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port %q", cfg.Port)
	}
	if cfg.Engine.ParticipationPhrase != "GGMU" {
		t.Errorf("phrase %q", cfg.Engine.ParticipationPhrase)
	}
	if cfg.Engine.RoundDuration != 900*time.Second || cfg.Engine.PrepareDelay != 3*time.Second {
		t.Errorf("durations %s %s", cfg.Engine.RoundDuration, cfg.Engine.PrepareDelay)
	}
	if cfg.JWTExpiry != 12*time.Hour {
		t.Errorf("JWTExpiry %s", cfg.JWTExpiry)
	}
	if cfg.CookieSecure || cfg.CookieName != "wordle_live_token" {
		t.Errorf("cookie %q secure=%v", cfg.CookieName, cfg.CookieSecure)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARTICIPATION_PHRASE", " join ")
	t.Setenv("ROUND_DURATION", "2m")
	t.Setenv("PREPARE_DELAY", "1500")
	t.Setenv("LIVE_RELAY_URL", "ws://relay.local/ws")
	t.Setenv("LIVE_UNIQUE_ID", "host")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.ParticipationPhrase != "JOIN" {
		t.Errorf("phrase %q", cfg.Engine.ParticipationPhrase)
	}
	if cfg.Engine.RoundDuration != 2*time.Minute {
		t.Errorf("round %s", cfg.Engine.RoundDuration)
	}
	if cfg.Engine.PrepareDelay != 1500*time.Millisecond {
		t.Errorf("prepare %s", cfg.Engine.PrepareDelay)
	}
	if !cfg.CookieSecure {
		t.Error("COOKIE_SECURE=true not applied")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":       {"ROUND_DURATION": "soon"},
		"relay without id":   {"LIVE_RELAY_URL": "ws://x", "LIVE_UNIQUE_ID": ""},
		"answers alone":      {"WORDS_ANSWERS_FILE": "a.txt", "WORDS_ALLOWED_FILE": ""},
		"bad jwt expiry":     {"JWT_EXPIRES_HOURS": "-1"},
		"round below 1 tick": {"ROUND_DURATION": "10ms"},
		"negative millis":    {"PREPARE_DELAY": "-1000"},
		"zero millis":        {"PREPARE_DELAY": "0"},
		"bad cookie flag":    {"COOKIE_SECURE": "sometimes"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(zerolog.Nop()); err == nil {
				t.Error("expected error")
			}
		})
	}
}
