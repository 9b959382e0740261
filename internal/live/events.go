// internal/live/events.go
//
// Inbound event model for the live broadcast relay.
// Defines:
//   - Chat, Gift, Social, Like, RoomUser: normalized audience events.
//   - Status: relay connection changes.
//   - Sink: anything that consumes the events (the round engine loop).
//   - Sequencer: monotonic per-process event numbering.
//
// Every event carries a Seq, unique within the process, assigned when it is
// decoded. Numbers increase per producer but producers interleave, so Seq is
// an identity, not an ordering. The round engine uses it on chat to drop
// re-delivered events; other kinds carry it for logs and tests.

package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/robalobadob/wordle-live/internal/game"
)

var ErrUnknownEvent = errors.New("live: unknown event kind")

// Event kinds as named on the relay wire.
const (
	KindChat     = "chat"
	KindGift     = "gift"
	KindSocial   = "social"
	KindLike     = "like"
	KindRoomUser = "roomUser"
)

// streakGiftType marks gifts that arrive repeatedly until RepeatEnd.
const streakGiftType = 1

type Chat struct {
	Seq uint64 `json:"-"`
	game.User
	Comment string `json:"comment"`
}

type Gift struct {
	Seq uint64 `json:"-"`
	game.User
	GiftID       int    `json:"giftId"`
	GiftName     string `json:"giftName"`
	DiamondCount int    `json:"diamondCount"`
	RepeatCount  int    `json:"repeatCount"`
	RepeatEnd    bool   `json:"repeatEnd"`
	GiftType     int    `json:"giftType"`
}

// Value is the diamond value of this event: per-unit diamonds × streak count.
func (g Gift) Value() int { return g.DiamondCount * g.RepeatCount }

// Terminal reports whether the event closes its streak (or never had one).
// Only terminal events count toward cumulative totals.
func (g Gift) Terminal() bool { return g.GiftType != streakGiftType || g.RepeatEnd }

type Social struct {
	Seq uint64 `json:"-"`
	game.User
	DisplayType string `json:"displayType"`
	Label       string `json:"label"`
}

func (s Social) IsFollow() bool { return strings.Contains(s.DisplayType, "follow") }

type Like struct {
	Seq uint64 `json:"-"`
	game.User
	LikeCount      int `json:"likeCount"`
	TotalLikeCount int `json:"totalLikeCount"`
}

type RoomUser struct {
	Seq         uint64 `json:"-"`
	ViewerCount int    `json:"viewerCount"`
}

// Status describes the relay connection.
type Status struct {
	Seq       uint64 `json:"-"`
	Connected bool   `json:"connected"`
	RoomID    string `json:"roomId,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Ended     bool   `json:"ended"`
}

// Sink consumes live events. Implementations must not block for long.
type Sink interface {
	Chat(Chat)
	Gift(Gift)
	Social(Social)
	Like(Like)
	RoomUser(RoomUser)
	Status(Status)
}

// Sequencer hands out strictly increasing event numbers, starting at 1.
type Sequencer struct {
	n atomic.Uint64
}

func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Deliver decodes one audience event of the given kind, stamps it with the
// next sequence number and hands it to sink.
func Deliver(sink Sink, seq *Sequencer, kind string, data []byte) error {
	switch kind {
	case KindChat:
		var ev Chat
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		ev.Seq = seq.Next()
		sink.Chat(ev)
	case KindGift:
		var ev Gift
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		if ev.RepeatCount == 0 {
			ev.RepeatCount = 1
		}
		ev.Seq = seq.Next()
		sink.Gift(ev)
	case KindSocial:
		var ev Social
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		ev.Seq = seq.Next()
		sink.Social(ev)
	case KindLike:
		var ev Like
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		ev.Seq = seq.Next()
		sink.Like(ev)
	case KindRoomUser:
		var ev RoomUser
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
		ev.Seq = seq.Next()
		sink.RoomUser(ev)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
	return nil
}
