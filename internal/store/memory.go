// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no archive database is configured.
//
// Characteristics:
//   - Keeps the most recent Capacity results; older ones are dropped.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle-live/internal/game"
)

// ErrNotFound is returned by Get for unknown round IDs.
var ErrNotFound = errors.New("store: not found")

// DefaultCapacity bounds the in-memory archive.
const DefaultCapacity = 200

// Store archives finished rounds. Nothing is ever read back into a game.
type Store interface {
	// Save records a result, replacing any earlier result with the same RoundID.
	Save(ctx context.Context, r game.Result) error

	// Get retrieves a result by round ID.
	// Returns ErrNotFound if it is unknown.
	Get(ctx context.Context, id string) (game.Result, error)

	// Recent lists results, newest first.
	Recent(ctx context.Context, limit int) ([]game.Result, error)

	Close() error
}

// memory is a bounded, insertion-ordered Store.
type memory struct {
	mu       sync.RWMutex
	capacity int
	order    []string               // round IDs, oldest first
	results  map[string]game.Result // keyed by RoundID
}

// NewMemoryStore constructs a new in-memory Store holding at most capacity results.
func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &memory{capacity: capacity, results: make(map[string]game.Result)}
}

func (m *memory) Save(ctx context.Context, r game.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.results[r.RoundID]; !ok {
		m.order = append(m.order, r.RoundID)
	}
	m.results[r.RoundID] = r
	for len(m.order) > m.capacity {
		delete(m.results, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (game.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.results[id]; ok {
		return r, nil
	}
	return game.Result{}, ErrNotFound
}

func (m *memory) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.order) {
		limit = len(m.order)
	}
	out := make([]game.Result, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.results[m.order[i]])
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
