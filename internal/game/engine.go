// internal/game/engine.go
//
// Guess evaluation and guess ranking for a live round.
// Responsibilities:
//   - Score guesses against the solution with the two-pass algorithm,
//     consuming solution letters so repeated letters are never over-reported.
//   - Rank guesses by tile score and split history into best + recent.
//
// Notes:
//   - Inputs are upper-cased here; callers validate shape (length, A–Z).
//   - Records are compared by position, never by value.

package game

import "strings"

// consumed marks a solution letter that has already been matched.
const consumed = 0

// Evaluate compares guess against solution and returns one TileStatus per letter.
// Returns nil when the lengths differ.
//
// Pass 1:
//   - Mark exact matches as correct and remove that letter from the
//     working copy of the solution.
//
// Pass 2:
//   - For each non-correct position, search the remaining working copy left
//     to right; the first match is consumed and marks the tile present,
//     otherwise the tile is absent.
func Evaluate(guess, solution string) []TileStatus {
	guess = strings.ToUpper(guess)
	solution = strings.ToUpper(solution)
	n := len(solution)
	if len(guess) != n {
		return nil
	}

	out := make([]TileStatus, n)
	if guess == solution {
		for i := range out {
			out[i] = StatusCorrect
		}
		return out
	}

	remaining := []byte(solution)

	// First pass: exact positions.
	for i := 0; i < n; i++ {
		if guess[i] == remaining[i] {
			out[i] = StatusCorrect
			remaining[i] = consumed
		}
	}

	// Second pass: misplaced letters against what is left.
	for i := 0; i < n; i++ {
		if out[i] == StatusCorrect {
			continue
		}
		out[i] = StatusAbsent
		for j := 0; j < n; j++ {
			if remaining[j] != consumed && remaining[j] == guess[i] {
				out[i] = StatusPresent
				remaining[j] = consumed
				break
			}
		}
	}
	return out
}

// AllCorrect returns n correct tiles, used when a round is won without a typed guess.
func AllCorrect(n int) []TileStatus {
	out := make([]TileStatus, n)
	for i := range out {
		out[i] = StatusCorrect
	}
	return out
}

// Score sums a row of tiles: correct=2, present=1, absent=0.
func Score(statuses []TileStatus) int {
	total := 0
	for _, s := range statuses {
		switch s {
		case StatusCorrect:
			total += 2
		case StatusPresent:
			total++
		}
	}
	return total
}

// SplitBest picks the featured guess and orders the rest for display.
//
// The best guess has the highest score scanning history oldest to newest;
// ties go to the newer guess. Recent holds every other guess newest first.
// ok is false for an empty history.
func SplitBest(history []GuessRecord) (best GuessRecord, recent []GuessRecord, ok bool) {
	if len(history) == 0 {
		return GuessRecord{}, nil, false
	}

	bestIdx := 0
	bestScore := Score(history[0].Statuses)
	for i := 1; i < len(history); i++ {
		if s := Score(history[i].Statuses); s >= bestScore {
			bestScore = s
			bestIdx = i
		}
	}

	recent = make([]GuessRecord, 0, len(history)-1)
	for i := len(history) - 1; i >= 0; i-- {
		if i == bestIdx {
			continue
		}
		recent = append(recent, history[i])
	}
	return history[bestIdx], recent, true
}

// IsWordShape reports whether s is exactly n ASCII letters A–Z.
func IsWordShape(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
