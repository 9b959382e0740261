package engine

import "github.com/robalobadob/wordle-live/internal/live"

// GiftEffect is the gameplay outcome of a gift event.
type GiftEffect int

const (
	GiftNone GiftEffect = iota
	GiftReveal
	GiftInstantWin
)

func (e GiftEffect) String() string {
	switch e {
	case GiftReveal:
		return "reveal"
	case GiftInstantWin:
		return "instant_win"
	default:
		return "none"
	}
}

// GiftRules holds the diamond thresholds that end a round.
type GiftRules struct {
	RevealValue     int // exact value that reveals the word for the gifter
	InstantWinValue int // value at or above which the gifter wins outright
}

// ClassifyGift maps an event's value (diamonds × repeat count) to its effect.
// Mid-streak events count too; the streak total is not awaited.
func ClassifyGift(g live.Gift, rules GiftRules) GiftEffect {
	v := g.Value()
	switch {
	case v == rules.RevealValue:
		return GiftReveal
	case v >= rules.InstantWinValue:
		return GiftInstantWin
	default:
		return GiftNone
	}
}
