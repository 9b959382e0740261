package engine

import (
	"sort"

	"github.com/robalobadob/wordle-live/internal/game"
)

// rankTitles label the top three places.
var rankTitles = []string{"🏆 Word Master", "🥈 Guess King", "🥉 Letter Genius"}

const defaultRankTitle = "Great Guesser"

type LeaderboardEntry struct {
	User  game.User `json:"user"`
	Wins  int       `json:"wins"`
	Rank  int       `json:"rank"`
	Title string    `json:"title"`

	firstWin uint64
}

// Leaderboard accumulates wins per viewer for the session.
// Entries are ordered by wins descending; equal wins keep the order in
// which the viewers first won.
type Leaderboard struct {
	entries []LeaderboardEntry
	wins    uint64
}

// RecordWin credits u with one win and refreshes their display details.
func (l *Leaderboard) RecordWin(u game.User) {
	l.wins++
	found := false
	for i := range l.entries {
		if l.entries[i].User.UniqueID == u.UniqueID {
			l.entries[i].Wins++
			l.entries[i].User = u
			found = true
			break
		}
	}
	if !found {
		l.entries = append(l.entries, LeaderboardEntry{User: u, Wins: 1, firstWin: l.wins})
	}
	sort.SliceStable(l.entries, func(i, j int) bool {
		a, b := l.entries[i], l.entries[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.firstWin < b.firstWin
	})
}

// Entries returns a ranked copy.
func (l *Leaderboard) Entries() []LeaderboardEntry {
	return l.Top(len(l.entries))
}

// Top returns at most n ranked entries.
func (l *Leaderboard) Top(n int) []LeaderboardEntry {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n <= 0 {
		return []LeaderboardEntry{}
	}
	out := make([]LeaderboardEntry, n)
	copy(out, l.entries[:n])
	for i := range out {
		out[i].Rank = i + 1
		out[i].Title = defaultRankTitle
		if i < len(rankTitles) {
			out[i].Title = rankTitles[i]
		}
	}
	return out
}

// Wins returns the win count for a viewer.
func (l *Leaderboard) Wins(uniqueID string) int {
	for _, e := range l.entries {
		if e.User.UniqueID == uniqueID {
			return e.Wins
		}
	}
	return 0
}

func (l *Leaderboard) Len() int { return len(l.entries) }

func (l *Leaderboard) Reset() {
	l.entries = nil
	l.wins = 0
}
