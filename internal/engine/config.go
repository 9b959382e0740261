package engine

import "time"

// Config holds the round timings and thresholds.
type Config struct {
	WordLength          int
	ParticipationPhrase string // chat text that grants eligibility, compared upper-case
	RankCommand         string // chat text that opens the rank overlay, compared case-insensitively

	PrepareDelay    time.Duration // PREPARING → word drawn
	RoundDuration   time.Duration // countdown start value
	TickInterval    time.Duration // countdown step
	RevealDelay     time.Duration // ROUND_OVER → summary shown
	DisplayDuration time.Duration // summary shown → summary hidden
	TeardownGap     time.Duration // summary hidden → next PREPARING
	DrainInterval   time.Duration // one queued chat event per tick

	NoticeDuration      time.Duration
	RankOverlayDuration time.Duration
	RankOverlaySize     int
	SpotlightDuration   time.Duration

	PrepareRetryDelay  time.Duration
	PrepareTimeout     time.Duration // bound on one dictionary init + draw
	MaxPrepareAttempts int

	Gifts GiftRules
}

func DefaultConfig() Config {
	return Config{
		WordLength:          5,
		ParticipationPhrase: "GGMU",
		RankCommand:         "!rank",

		PrepareDelay:    3000 * time.Millisecond,
		RoundDuration:   900 * time.Second,
		TickInterval:    time.Second,
		RevealDelay:     1500 * time.Millisecond,
		DisplayDuration: 5000 * time.Millisecond,
		TeardownGap:     500 * time.Millisecond,
		DrainInterval:   100 * time.Millisecond,

		NoticeDuration:      3000 * time.Millisecond,
		RankOverlayDuration: 5000 * time.Millisecond,
		RankOverlaySize:     10,
		SpotlightDuration:   7000 * time.Millisecond,

		PrepareRetryDelay:  2 * time.Second,
		PrepareTimeout:     10 * time.Second,
		MaxPrepareAttempts: 5,

		Gifts: GiftRules{RevealValue: 10, InstantWinValue: 30},
	}
}
