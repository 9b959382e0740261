// internal/engine/loop.go
//
// Loop owns the goroutine that mutates a Game.
//
// Every public entry point posts a closure to the inbox; Run executes them
// one at a time, so the game never sees concurrent calls. After each closure
// the loop flushes changed topics to the OnUpdate hook.

package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/live"
)

var ErrStopped = errors.New("engine: loop stopped")

const inboxSize = 256

type Loop struct {
	game   *Game
	inbox  chan func()
	done   chan struct{}
	logger zerolog.Logger
}

// NewLoop builds a game bound to a new loop. Run must be called exactly once.
func NewLoop(cfg Config, dict Dictionary, clock Clock, logger zerolog.Logger, hooks Hooks) *Loop {
	l := &Loop{
		inbox:  make(chan func(), inboxSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	l.game = NewGame(cfg, dict, clock, l.post, logger, hooks)
	return l
}

// Run starts the session and processes work until ctx ends.
// It returns ErrDictionaryUnavailable (wrapped) if no word can be drawn.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.game.Stop()

	l.game.Start(ctx)
	l.game.Flush()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("engine loop stopping")
			return nil
		case f := <-l.inbox:
			f()
			l.game.Flush()
			if err := l.game.Err(); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) post(f func()) {
	select {
	case l.inbox <- f:
	case <-l.done:
	}
}

// call runs f on the loop and waits for its result.
func call[T any](ctx context.Context, l *Loop, f func() T) (T, error) {
	var zero T
	reply := make(chan T, 1)
	select {
	case l.inbox <- func() { reply <- f() }:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		return zero, ErrStopped
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		return zero, ErrStopped
	}
}

func (l *Loop) Chat(ev live.Chat)         { l.post(func() { l.game.Chat(ev) }) }
func (l *Loop) Gift(ev live.Gift)         { l.post(func() { l.game.Gift(ev) }) }
func (l *Loop) Social(ev live.Social)     { l.post(func() { l.game.Social(ev) }) }
func (l *Loop) Like(ev live.Like)         { l.post(func() { l.game.Like(ev) }) }
func (l *Loop) RoomUser(ev live.RoomUser) { l.post(func() { l.game.RoomUser(ev) }) }
func (l *Loop) Status(ev live.Status)     { l.post(func() { l.game.Status(ev) }) }

// ForceReveal ends the active round without a winner. It reports false
// when no round was active.
func (l *Loop) ForceReveal(ctx context.Context) (bool, error) {
	return call(ctx, l, l.game.ForceReveal)
}

// Restart abandons the current round.
func (l *Loop) Restart(ctx context.Context) error {
	_, err := call(ctx, l, func() struct{} {
		l.game.Restart()
		return struct{}{}
	})
	return err
}

func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(ctx, l, l.game.Snapshot)
}

func (l *Loop) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	return call(ctx, l, l.game.Leaderboard)
}
