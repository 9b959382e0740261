package engine

import (
	"time"

	"github.com/robalobadob/wordle-live/internal/game"
)

// Topic names a part of the snapshot that changed.
type Topic string

const (
	TopicRound       Topic = "round"
	TopicGuesses     Topic = "guesses"
	TopicLeaderboard Topic = "leaderboard"
	TopicNotice      Topic = "notice"
	TopicOverlay     Topic = "overlay"
	TopicStatus      Topic = "status"
)

var allTopics = []Topic{TopicRound, TopicGuesses, TopicLeaderboard, TopicNotice, TopicOverlay, TopicStatus}

// TopicNames returns topic names as strings, every topic when none are given.
func TopicNames(topics ...Topic) []string {
	if len(topics) == 0 {
		topics = allTopics
	}
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notice is a short-lived message to the audience. A new one replaces the old.
type Notice struct {
	Content  string    `json:"content"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// Summary is the round-over card.
type Summary struct {
	Title    string     `json:"title"`
	Solution string     `json:"solution"`
	Winner   *game.User `json:"winner"`
	Meanings []string   `json:"meanings"`
	Examples []string   `json:"examples"`
	Visible  bool       `json:"visible"`
}

// Spotlight thanks the latest gifter.
type Spotlight struct {
	User     game.User `json:"user"`
	GiftName string    `json:"giftName"`
	Value    int       `json:"value"`
}

type LikeView struct {
	User  game.User `json:"user"`
	Count int       `json:"count"`
	Total int       `json:"total"`
}

type ConnectionView struct {
	Connected bool   `json:"connected"`
	RoomID    string `json:"roomId,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Ended     bool   `json:"ended"`
}

type RankOverlay struct {
	Visible bool               `json:"visible"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	Phase         Phase              `json:"phase"`
	RoundID       string             `json:"roundId"`
	WordLength    int                `json:"wordLength"`
	Countdown     *int               `json:"countdown"`
	Solution      string             `json:"solution,omitempty"`
	Message       string             `json:"message"`
	Prompt        string             `json:"prompt"`
	History       []game.GuessRecord `json:"history"`
	Best          *game.GuessRecord  `json:"best"`
	Recent        []game.GuessRecord `json:"recent"`
	Summary       Summary            `json:"summary"`
	InstantWinner *game.User         `json:"instantWinner"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
	Notice        *Notice            `json:"notice"`
	RankOverlay   RankOverlay        `json:"rankOverlay"`
	Spotlight     *Spotlight         `json:"spotlight"`
	TotalDiamonds int                `json:"totalDiamonds"`
	Followers     int                `json:"followers"`
	Participants  int                `json:"participants"`
	Viewers       int                `json:"viewers"`
	LatestLike    *LikeView          `json:"latestLike"`
	Connection    ConnectionView     `json:"connection"`
}

// Snapshot copies the current state. The solution is only included once
// the round is over.
func (g *Game) Snapshot() Snapshot {
	r := g.round
	s := Snapshot{
		Phase:         g.phase,
		RoundID:       r.ID,
		WordLength:    g.cfg.WordLength,
		Message:       g.message,
		History:       append([]game.GuessRecord{}, r.History...),
		Recent:        []game.GuessRecord{},
		Summary:       g.summary,
		Leaderboard:   g.board.Entries(),
		RankOverlay:   RankOverlay{Visible: g.rankOverlay, Entries: g.board.Top(g.cfg.RankOverlaySize)},
		TotalDiamonds: g.diamonds,
		Followers:     len(g.followers),
		Participants:  g.gate.Len(),
		Viewers:       g.viewers,
		Connection:    g.conn,
	}
	switch g.phase {
	case PhaseActive:
		n := r.Remaining
		s.Countdown = &n
		s.Prompt = "Send a gift, follow, or comment '" + g.cfg.ParticipationPhrase + "' to join the guessing!"
	case PhasePreparing, PhaseLoading:
		s.Prompt = "A new game is starting soon!"
	case PhaseRoundOver:
		s.Solution = r.Solution
	}
	if best, recent, ok := game.SplitBest(r.History); ok {
		s.Best = &best
		s.Recent = recent
	}
	if g.notice != nil {
		n := *g.notice
		s.Notice = &n
	}
	if g.spotlight != nil {
		sp := *g.spotlight
		s.Spotlight = &sp
	}
	if g.instantWinner != nil {
		u := *g.instantWinner
		s.InstantWinner = &u
	}
	if g.lastLike != nil {
		l := *g.lastLike
		s.LatestLike = &l
	}
	return s
}
