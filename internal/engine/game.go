// internal/engine/game.go
//
// Round lifecycle controller.
//
// Phases:
//   LOADING → PREPARING → ACTIVE → ROUND_OVER → PREPARING → ...
//   LOADING is re-entered from any phase only by Start or Restart.
//
// Responsibilities:
//   - Draw a word after the prepare delay and run the 1 Hz countdown.
//   - Drain queued chat one event per tick into participation and guesses.
//   - Apply gift rules, credit winners, reveal the solution, auto-restart.
//   - Keep session state (participants, leaderboard, audience stats).
//
// Concurrency:
//   - A Game has exactly one writer. Every method must be called from the
//     goroutine that owns it (see Loop); scheduler callbacks are posted there.

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/game"
	"github.com/robalobadob/wordle-live/internal/live"
)

var ErrDictionaryUnavailable = errors.New("engine: dictionary unavailable")

type Phase string

const (
	PhaseLoading   Phase = "LOADING"
	PhasePreparing Phase = "PREPARING"
	PhaseActive    Phase = "ACTIVE"
	PhaseRoundOver Phase = "ROUND_OVER"
)

// next lists the forward transitions. LOADING is handled separately.
var next = map[Phase]Phase{
	PhaseLoading:   PhasePreparing,
	PhasePreparing: PhaseActive,
	PhaseActive:    PhaseRoundOver,
	PhaseRoundOver: PhasePreparing,
}

type Outcome string

const (
	OutcomeGuessed      Outcome = "guessed"
	OutcomeRevealGift   Outcome = "reveal_gift"
	OutcomeInstantWin   Outcome = "instant_win"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeForcedReveal Outcome = "forced_reveal"
)

var outcomeTitles = map[Outcome]string{
	OutcomeGuessed:      "🎉 WINNER! 🎉",
	OutcomeRevealGift:   "WORD UNLOCKED!",
	OutcomeInstantWin:   "🏆 SULTAN WINS! 🏆",
	OutcomeTimeout:      "TIME'S UP!",
	OutcomeForcedReveal: "Word Revealed",
}

const noDefinition = "Definition not found."

// Task names.
const (
	taskDrain     = "drain"
	taskNotice    = "notice"
	taskRank      = "rank-overlay"
	taskSpotlight = "spotlight"
	taskPrepare   = "prepare"
	taskCountdown = "countdown"
	taskReveal    = "reveal"
	taskDisplay   = "display"
	taskTeardown  = "teardown"
)

// Dictionary is the word service the game draws from.
type Dictionary interface {
	Initialize(ctx context.Context) error
	RandomWord(length int) (string, error)
	IsValidWord(word string) bool
	Definition(word string) (game.Definition, bool)
}

// prefetcher is implemented by dictionaries that can warm a definition
// before the summary needs it.
type prefetcher interface {
	Prefetch(word string)
}

// Hooks observe the game. All hooks run on the game's goroutine.
type Hooks struct {
	OnUpdate    func(topics []Topic, snap Snapshot)
	OnRoundOver func(game.Result)
	OnPhase     func(from, to Phase)
}

// Round is the state of one word. A new Round replaces the old one on every
// entry into PREPARING.
type Round struct {
	ID        string
	Solution  string
	History   []game.GuessRecord
	Remaining int // countdown ticks left
	Deadline  time.Time
	StartedAt time.Time
	EndedAt   time.Time
	Outcome   Outcome
	Winner    *game.User

	seen     map[string]struct{} // normalized guesses already scored
	ending   bool
	attempts int // prepare attempts
}

func newRound() *Round {
	id, err := gonanoid.New(12)
	if err != nil {
		id = fmt.Sprintf("r%d", time.Now().UnixNano())
	}
	return &Round{ID: id, seen: make(map[string]struct{})}
}

type Game struct {
	cfg    Config
	dict   Dictionary
	clock  Clock
	sched  *Scheduler
	logger zerolog.Logger
	hooks  Hooks
	ctx    context.Context

	phase Phase
	round *Round
	queue Queue
	gate  *Gate
	board Leaderboard

	message       string
	summary       Summary
	notice        *Notice
	rankOverlay   bool
	spotlight     *Spotlight
	instantWinner *game.User

	diamonds  int
	followers map[string]struct{}
	viewers   int
	lastLike  *LikeView
	conn      ConnectionView

	dirty map[Topic]struct{}
	err   error
}

// NewGame builds a stopped game. post must run its argument on the game's goroutine.
func NewGame(cfg Config, dict Dictionary, clock Clock, post func(func()), logger zerolog.Logger, hooks Hooks) *Game {
	return &Game{
		cfg:       cfg,
		dict:      dict,
		clock:     clock,
		sched:     NewScheduler(clock, post),
		logger:    logger.With().Str("component", "engine").Logger(),
		hooks:     hooks,
		ctx:       context.Background(),
		phase:     PhaseLoading,
		round:     newRound(),
		gate:      NewGate(),
		followers: make(map[string]struct{}),
		dirty:     make(map[Topic]struct{}),
	}
}

// Start begins a new session: participants, leaderboard and audience
// totals are reset and the first round is prepared.
func (g *Game) Start(ctx context.Context) {
	g.ctx = ctx
	g.err = nil
	g.sched.CancelAll()
	g.gate.Reset()
	g.board.Reset()
	g.queue.Clear()
	g.diamonds = 0
	clear(g.followers)
	g.notice, g.rankOverlay, g.spotlight, g.instantWinner = nil, false, nil, nil

	g.setPhase(PhaseLoading)
	g.sched.Every(ScopeSession, taskDrain, g.cfg.DrainInterval, g.drain)
	g.logger.Info().Msg("session started")
	g.beginRound()
	g.notify(TopicLeaderboard, TopicNotice, TopicOverlay, TopicStatus)
}

// Restart abandons the current round and prepares a new one.
// Session state is kept.
func (g *Game) Restart() {
	g.logger.Info().Str("phase", string(g.phase)).Msg("forced restart")
	g.setPhase(PhaseLoading)
	g.beginRound()
}

// Stop cancels every pending task.
func (g *Game) Stop() {
	g.sched.CancelAll()
}

// Err reports a fatal condition; the owner should stop the game.
func (g *Game) Err() error { return g.err }

func (g *Game) Phase() Phase { return g.phase }

// setPhase moves to a new phase. LOADING is always reachable;
// anything else must follow the fixed order.
func (g *Game) setPhase(to Phase) bool {
	from := g.phase
	if to != PhaseLoading && next[from] != to {
		g.logger.Error().Str("from", string(from)).Str("to", string(to)).Msg("illegal phase transition")
		return false
	}
	g.phase = to
	g.logger.Debug().Str("from", string(from)).Str("to", string(to)).Str("round", g.round.ID).Msg("phase")
	if g.hooks.OnPhase != nil {
		g.hooks.OnPhase(from, to)
	}
	g.notify(TopicRound)
	return true
}

// beginRound enters PREPARING with a clean round.
func (g *Game) beginRound() {
	g.sched.CancelScope(ScopeRound)
	g.round = newRound()
	g.queue.Clear()
	g.summary = Summary{}
	g.message = ""
	if !g.setPhase(PhasePreparing) {
		return
	}
	g.sched.After(ScopeRound, taskPrepare, g.cfg.PrepareDelay, g.prepare)
	g.notify(TopicGuesses)
}

// prepare draws the round's word and starts the countdown.
// On dictionary failure it retries, then gives up with ErrDictionaryUnavailable.
func (g *Game) prepare() {
	if g.phase != PhasePreparing {
		return
	}
	r := g.round
	r.attempts++

	word, err := g.drawWord()
	if err != nil {
		g.logger.Error().Err(err).Int("attempt", r.attempts).Msg("could not draw a word")
		if r.attempts >= g.cfg.MaxPrepareAttempts {
			g.err = fmt.Errorf("%w: %d attempts: %v", ErrDictionaryUnavailable, r.attempts, err)
			g.setNotice("Dictionary unavailable, the game has stopped.", SeverityError)
			g.sched.CancelAll()
			return
		}
		g.setNotice(fmt.Sprintf("Dictionary unavailable, retrying (%d/%d)...", r.attempts, g.cfg.MaxPrepareAttempts), SeverityError)
		g.sched.After(ScopeRound, taskPrepare, g.cfg.PrepareRetryDelay, g.prepare)
		return
	}

	now := g.clock.Now()
	g.instantWinner = nil
	r.Solution = word
	r.StartedAt = now
	r.Remaining = int(g.cfg.RoundDuration / g.cfg.TickInterval)
	r.Deadline = now.Add(g.cfg.RoundDuration)
	if !g.setPhase(PhaseActive) {
		return
	}
	g.sched.Every(ScopeRound, taskCountdown, g.cfg.TickInterval, g.tick)
	g.logger.Info().Str("round", r.ID).Msg("round active")
	g.notify(TopicOverlay)
}

func (g *Game) drawWord() (string, error) {
	ctx, cancel := context.WithTimeout(g.ctx, g.cfg.PrepareTimeout)
	defer cancel()
	if err := g.dict.Initialize(ctx); err != nil {
		return "", fmt.Errorf("initialize dictionary: %w", err)
	}
	word, err := g.dict.RandomWord(g.cfg.WordLength)
	if err != nil {
		return "", fmt.Errorf("random word: %w", err)
	}
	word = strings.ToUpper(word)
	if !game.IsWordShape(word, g.cfg.WordLength) {
		return "", fmt.Errorf("dictionary returned %q", word)
	}
	return word, nil
}

func (g *Game) tick() {
	r := g.round
	if g.phase != PhaseActive || r.ending {
		return
	}
	r.Remaining--
	if r.Remaining <= 0 {
		r.Remaining = 0
		g.endRound(OutcomeTimeout, nil)
		return
	}
	g.notify(TopicRound)
}

// endRound moves ACTIVE → ROUND_OVER once per round. Later triggers are no-ops.
func (g *Game) endRound(outcome Outcome, winner *game.User) bool {
	r := g.round
	if g.phase != PhaseActive || r.ending || r.Solution == "" {
		return false
	}
	r.ending = true
	g.sched.Cancel(ScopeRound, taskCountdown)

	r.Outcome = outcome
	r.Winner = winner
	r.EndedAt = g.clock.Now()

	switch outcome {
	case OutcomeTimeout:
		g.message = fmt.Sprintf("TIME'S UP! The word was %s", r.Solution)
	case OutcomeForcedReveal:
		g.message = fmt.Sprintf("Word revealed! Answer: %s", r.Solution)
	default:
		g.message = fmt.Sprintf("SUCCESS! %s guessed the right word!", winner.Nickname)
	}
	if winner != nil {
		g.board.RecordWin(*winner)
		g.notify(TopicLeaderboard)
	}
	if outcome == OutcomeInstantWin {
		w := *winner
		g.instantWinner = &w
		g.notify(TopicOverlay)
	}
	g.setPhase(PhaseRoundOver)

	if p, ok := g.dict.(prefetcher); ok {
		p.Prefetch(r.Solution)
	}
	ev := g.logger.Info().Str("round", r.ID).Str("outcome", string(outcome)).Int("guesses", len(r.History))
	if winner != nil {
		ev = ev.Str("winner", winner.UniqueID)
	}
	ev.Msg("round over")

	g.sched.After(ScopeRound, taskReveal, g.cfg.RevealDelay, g.reveal)
	return true
}

// reveal shows the summary and archives the result.
func (g *Game) reveal() {
	r := g.round
	s := Summary{
		Title:    outcomeTitles[r.Outcome],
		Solution: r.Solution,
		Winner:   r.Winner,
		Meanings: []string{noDefinition},
		Examples: []string{},
		Visible:  true,
	}
	if def, ok := g.dict.Definition(r.Solution); ok && len(def.Meanings) > 0 {
		s.Meanings = def.Meanings
		if def.Examples != nil {
			s.Examples = def.Examples
		}
	}
	g.summary = s
	g.notify(TopicRound)

	if g.hooks.OnRoundOver != nil {
		g.hooks.OnRoundOver(game.Result{
			RoundID:   r.ID,
			Solution:  r.Solution,
			Outcome:   string(r.Outcome),
			Winner:    r.Winner,
			Guesses:   len(r.History),
			StartedAt: r.StartedAt,
			EndedAt:   r.EndedAt,
		})
	}
	g.sched.After(ScopeRound, taskDisplay, g.cfg.DisplayDuration, g.hideSummary)
}

func (g *Game) hideSummary() {
	g.summary.Visible = false
	g.notify(TopicRound)
	g.sched.After(ScopeRound, taskTeardown, g.cfg.TeardownGap, g.beginRound)
}

// ForceReveal ends the active round without a winner.
func (g *Game) ForceReveal() bool {
	return g.endRound(OutcomeForcedReveal, nil)
}

// Chat accepts an incoming chat event. The rank command is handled now;
// everything else waits in the queue.
func (g *Game) Chat(ev live.Chat) {
	if strings.EqualFold(strings.TrimSpace(ev.Comment), g.cfg.RankCommand) {
		g.showRankOverlay()
		return
	}
	if !g.queue.Push(ev) {
		g.logger.Debug().Uint64("seq", ev.Seq).Msg("dropping re-delivered chat")
	}
}

// drain handles at most one queued chat event.
func (g *Game) drain() {
	ev, ok := g.queue.Pop()
	if !ok {
		return
	}
	comment := strings.ToUpper(strings.TrimSpace(ev.Comment))
	switch {
	case comment == strings.ToUpper(g.cfg.ParticipationPhrase):
		g.grant(ev.User, GrantComment)
	case game.IsWordShape(comment, g.cfg.WordLength):
		g.handleGuess(ev.User, comment)
	}
}

func (g *Game) handleGuess(user game.User, guess string) {
	if !g.gate.Eligible(user) {
		g.setNotice(fmt.Sprintf("%s, send a gift, follow, or comment '%s' first to join the guessing!",
			user.Nickname, g.cfg.ParticipationPhrase), SeverityInfo)
		return
	}
	r := g.round
	if g.phase != PhaseActive || r.ending || r.Solution == "" {
		return
	}
	guess = strings.ToUpper(guess)
	if _, dup := r.seen[guess]; dup {
		return
	}
	if !g.dict.IsValidWord(guess) {
		g.logger.Debug().Str("guess", guess).Str("user", user.UniqueID).Msg("not a word")
		g.setNotice(fmt.Sprintf("%s is not a valid word! (from %s)", guess, user.Nickname), SeverityError)
		return
	}

	r.seen[guess] = struct{}{}
	g.appendRecord(game.GuessRecord{Guess: guess, Author: user, Statuses: game.Evaluate(guess, r.Solution)})
	if guess == r.Solution {
		g.endRound(OutcomeGuessed, &user)
	}
}

func (g *Game) appendRecord(rec game.GuessRecord) {
	g.round.History = append(g.round.History, rec)
	g.notify(TopicGuesses)
}

func (g *Game) grant(user game.User, reason GrantReason) {
	if !g.gate.Grant(user) {
		return
	}
	var msg string
	switch reason {
	case GrantFollow:
		msg = fmt.Sprintf("%s, thanks for the follow! You can guess now.", user.Nickname)
	case GrantGift:
		msg = fmt.Sprintf("%s, thanks for the gift! You can guess now.", user.Nickname)
	default:
		msg = fmt.Sprintf("Thanks %s for joining, go ahead and guess!", user.Nickname)
	}
	g.logger.Debug().Str("user", user.UniqueID).Str("reason", string(reason)).Msg("participant granted")
	g.setNotice(msg, SeverityInfo)
}

// Gift grants eligibility, updates the spotlight and diamond total, and
// applies the gift rules to the active round.
func (g *Game) Gift(ev live.Gift) {
	g.grant(ev.User, GrantGift)

	g.spotlight = &Spotlight{User: ev.User, GiftName: ev.GiftName, Value: ev.Value()}
	g.sched.After(ScopeSession, taskSpotlight, g.cfg.SpotlightDuration, func() {
		g.spotlight = nil
		g.notify(TopicOverlay)
	})
	g.notify(TopicOverlay)
	if ev.Terminal() {
		g.diamonds += ev.Value()
		g.notify(TopicStatus)
	}

	r := g.round
	if g.phase != PhaseActive || r.ending {
		return
	}
	effect := ClassifyGift(ev, g.cfg.Gifts)
	if effect == GiftNone {
		return
	}
	user := ev.User
	g.appendRecord(game.GuessRecord{
		Guess:    r.Solution,
		Author:   user,
		Statuses: game.AllCorrect(len(r.Solution)),
	})
	if effect == GiftReveal {
		g.endRound(OutcomeRevealGift, &user)
	} else {
		g.endRound(OutcomeInstantWin, &user)
	}
}

func (g *Game) Social(ev live.Social) {
	if !ev.IsFollow() {
		return
	}
	g.followers[ev.UniqueID] = struct{}{}
	g.grant(ev.User, GrantFollow)
	g.notify(TopicStatus)
}

func (g *Game) Like(ev live.Like) {
	g.lastLike = &LikeView{User: ev.User, Count: ev.LikeCount, Total: ev.TotalLikeCount}
	g.notify(TopicStatus)
}

func (g *Game) RoomUser(ev live.RoomUser) {
	g.viewers = ev.ViewerCount
	g.notify(TopicStatus)
}

// Status tracks the relay connection. A fresh connection resets the
// per-broadcast totals.
func (g *Game) Status(ev live.Status) {
	if ev.Connected && !g.conn.Connected {
		g.diamonds = 0
		clear(g.followers)
	}
	g.conn = ConnectionView{Connected: ev.Connected, RoomID: ev.RoomID, Reason: ev.Reason, Ended: ev.Ended}
	g.notify(TopicStatus)
}

func (g *Game) setNotice(content string, sev Severity) {
	g.notice = &Notice{Content: content, Severity: sev, At: g.clock.Now()}
	g.sched.After(ScopeSession, taskNotice, g.cfg.NoticeDuration, func() {
		g.notice = nil
		g.notify(TopicNotice)
	})
	g.notify(TopicNotice)
}

func (g *Game) showRankOverlay() {
	g.rankOverlay = true
	g.sched.After(ScopeSession, taskRank, g.cfg.RankOverlayDuration, func() {
		g.rankOverlay = false
		g.notify(TopicOverlay)
	})
	g.notify(TopicOverlay)
}

func (g *Game) notify(topics ...Topic) {
	for _, t := range topics {
		g.dirty[t] = struct{}{}
	}
}

// Flush reports topics changed since the last flush to OnUpdate.
func (g *Game) Flush() {
	if len(g.dirty) == 0 {
		return
	}
	topics := make([]Topic, 0, len(g.dirty))
	for _, t := range allTopics {
		if _, ok := g.dirty[t]; ok {
			topics = append(topics, t)
		}
	}
	clear(g.dirty)
	if g.hooks.OnUpdate != nil {
		g.hooks.OnUpdate(topics, g.Snapshot())
	}
}

// Leaderboard returns ranked entries.
func (g *Game) Leaderboard() []LeaderboardEntry { return g.board.Entries() }
