// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded goose migrations from migrations/*.sql.
//   - Saving and listing round results.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/game"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the archive database at path
// and migrates it to the latest schema.
func OpenSQLite(path string, logger zerolog.Logger) (Store, error) {
	logger.Info().Str("path", path).Msg("opening archive database")
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// openDB ensures the parent directory exists, then opens the file with
// busy timeout and WAL journaling.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// One writer at a time; results arrive once per round.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose migrations: %w", err)
	}
	logger.Info().Msg("archive migrations applied")
	return nil
}

func (s *sqliteStore) Save(ctx context.Context, r game.Result) error {
	var winnerID, winnerName, winnerPic sql.NullString
	if r.Winner != nil {
		winnerID = sql.NullString{String: r.Winner.UniqueID, Valid: true}
		winnerName = sql.NullString{String: r.Winner.Nickname, Valid: true}
		winnerPic = sql.NullString{String: r.Winner.ProfilePictureURL, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO round_results(round_id, solution, outcome, winner_id, winner_name, winner_picture, guesses, started_at, ended_at)
VALUES(?,?,?,?,?,?,?,?,?)`,
		r.RoundID, r.Solution, r.Outcome, winnerID, winnerName, winnerPic, r.Guesses,
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert round %s: %w", r.RoundID, err)
	}
	return nil
}

const selectResult = `SELECT round_id, solution, outcome, winner_id, winner_name, winner_picture, guesses, started_at, ended_at
FROM round_results`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (game.Result, error) {
	var (
		r                               game.Result
		winnerID, winnerName, winnerPic sql.NullString
		started, ended                  int64
	)
	if err := row.Scan(&r.RoundID, &r.Solution, &r.Outcome, &winnerID, &winnerName, &winnerPic, &r.Guesses, &started, &ended); err != nil {
		return game.Result{}, err
	}
	if winnerID.Valid {
		r.Winner = &game.User{UniqueID: winnerID.String, Nickname: winnerName.String, ProfilePictureURL: winnerPic.String}
	}
	r.StartedAt = time.UnixMilli(started).UTC()
	r.EndedAt = time.UnixMilli(ended).UTC()
	return r, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (game.Result, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx, selectResult+` WHERE round_id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return game.Result{}, ErrNotFound
	}
	if err != nil {
		return game.Result{}, fmt.Errorf("get round %s: %w", id, err)
	}
	return r, nil
}

func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	rows, err := s.db.QueryContext(ctx, selectResult+` ORDER BY ended_at DESC, created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()
	out := []game.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
