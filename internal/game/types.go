// internal/game/types.go
//
// Core type definitions shared by the round engine.
// Defines:
//   - TileStatus: per-letter verdict of a guess (correct/present/absent).
//   - User: a viewer as reported by the live stream.
//   - GuessRecord: one scored guess and its author.
//   - Definition: dictionary meanings and usage examples for a word.
//   - Result: archived outcome of a finished round.

package game

import "time"

// TileStatus represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the solution at this position.
//   - "present": letter is in the solution at a different position.
//   - "absent":  letter is not in the unconsumed part of the solution.
type TileStatus string

const (
	StatusCorrect TileStatus = "correct"
	StatusPresent TileStatus = "present"
	StatusAbsent  TileStatus = "absent"
)

// User identifies a viewer. UniqueID is stable; Nickname and
// ProfilePictureURL may change between events (latest wins for display).
type User struct {
	UniqueID          string `json:"uniqueId"`
	Nickname          string `json:"nickname"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// GuessRecord is an evaluated guess. Records are never mutated after creation.
type GuessRecord struct {
	Guess    string       `json:"guess"`    // upper-case, word length
	Author   User         `json:"author"`   // who sent it
	Statuses []TileStatus `json:"statuses"` // one per letter
}

// Definition holds what the dictionary knows about a word.
type Definition struct {
	Meanings []string `json:"meanings"`
	Examples []string `json:"examples"`
}

// Result is the archived outcome of one finished round.
type Result struct {
	RoundID   string    `json:"roundId"`
	Solution  string    `json:"solution"`
	Outcome   string    `json:"outcome"` // guessed, reveal_gift, instant_win, timeout, forced_reveal
	Winner    *User     `json:"winner,omitempty"`
	Guesses   int       `json:"guesses"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}
