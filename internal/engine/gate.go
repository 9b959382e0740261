package engine

import "github.com/robalobadob/wordle-live/internal/game"

// GrantReason says how a viewer became a participant.
type GrantReason string

const (
	GrantComment GrantReason = "comment" // sent the participation phrase
	GrantFollow  GrantReason = "follow"
	GrantGift    GrantReason = "gift"
)

// Gate is the session's participant registry. Entries are never removed
// except by Reset at session start.
type Gate struct {
	members map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{members: make(map[string]struct{})}
}

func (g *Gate) Eligible(u game.User) bool {
	_, ok := g.members[u.UniqueID]
	return ok
}

// Grant registers u and reports whether this was the first grant.
func (g *Gate) Grant(u game.User) bool {
	if u.UniqueID == "" {
		return false
	}
	if _, ok := g.members[u.UniqueID]; ok {
		return false
	}
	g.members[u.UniqueID] = struct{}{}
	return true
}

func (g *Gate) Len() int { return len(g.members) }

func (g *Gate) Reset() { clear(g.members) }
