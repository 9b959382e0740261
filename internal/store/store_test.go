package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/game"
)

func result(i int, winner *game.User) game.Result {
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return game.Result{
		RoundID:   fmt.Sprintf("round-%02d", i),
		Solution:  "BERAS",
		Outcome:   "guessed",
		Winner:    winner,
		Guesses:   i,
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Second),
	}
}

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	alice := &game.User{UniqueID: "a", Nickname: "Alice", ProfilePictureURL: "a.png"}

	for i := 1; i <= 3; i++ {
		w := alice
		if i == 2 {
			w = nil
		}
		if err := s.Save(ctx, result(i, w)); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, err := s.Get(ctx, "round-01")
	if err != nil {
		t.Fatal(err)
	}
	if got.Winner == nil || *got.Winner != *alice || got.Guesses != 1 {
		t.Errorf("got %+v", got)
	}
	if !got.EndedAt.Equal(result(1, nil).EndedAt) {
		t.Errorf("EndedAt %v", got.EndedAt)
	}

	noWinner, err := s.Get(ctx, "round-02")
	if err != nil || noWinner.Winner != nil {
		t.Errorf("round-02 = %+v, %v", noWinner, err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].RoundID != "round-03" || recent[1].RoundID != "round-02" {
		t.Errorf("recent %+v", recent)
	}

	// Saving the same round again replaces it.
	again := result(3, alice)
	again.Guesses = 42
	if err := s.Save(ctx, again); err != nil {
		t.Fatal(err)
	}
	all, _ := s.Recent(ctx, 0)
	if len(all) != 3 || all[0].Guesses != 42 {
		t.Errorf("after replace: %+v", all)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore(0))
}

func TestMemoryStore_Bounded(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_ = s.Save(ctx, result(i, nil))
	}
	if _, err := s.Get(ctx, "round-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("oldest result kept: %v", err)
	}
	recent, _ := s.Recent(ctx, 10)
	if len(recent) != 2 {
		t.Errorf("len %d, want 2", len(recent))
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "archive.db")
	s, err := OpenSQLite(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := OpenSQLite(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), result(7, nil)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(context.Background(), "round-07"); err != nil {
		t.Errorf("result lost across reopen: %v", err)
	}
}
