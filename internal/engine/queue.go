package engine

import "github.com/robalobadob/wordle-live/internal/live"

// Queue buffers chat events until the drain task consumes them, one per tick.
// Producers number events before posting them, so numbers may arrive out of
// order; an event is rejected only if its Seq was already accepted this
// round, or was handed out before the last Clear.
type Queue struct {
	items []live.Chat
	seen  map[uint64]struct{}
	high  uint64 // largest Seq accepted
	floor uint64 // Seq values at or below floor predate the last Clear
}

// Push appends ev and reports whether it was new.
func (q *Queue) Push(ev live.Chat) bool {
	if ev.Seq <= q.floor {
		return false
	}
	if _, dup := q.seen[ev.Seq]; dup {
		return false
	}
	if q.seen == nil {
		q.seen = make(map[uint64]struct{})
	}
	q.seen[ev.Seq] = struct{}{}
	q.high = max(q.high, ev.Seq)
	q.items = append(q.items, ev)
	return true
}

// Pop removes the oldest event.
func (q *Queue) Pop() (live.Chat, bool) {
	if len(q.items) == 0 {
		return live.Chat{}, false
	}
	ev := q.items[0]
	q.items[0] = live.Chat{}
	q.items = q.items[1:]
	return ev, true
}

func (q *Queue) Len() int { return len(q.items) }

// Clear drops buffered events and forgets accepted numbers; everything
// numbered up to the highest accepted Seq stays rejected.
func (q *Queue) Clear() {
	q.items = nil
	q.floor = q.high
	clear(q.seen)
}
