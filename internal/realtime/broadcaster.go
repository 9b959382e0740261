package realtime

import (
	"encoding/json"
	"sync"
)

// Message is one state update fanned out to stream subscribers.
// Data is pre-encoded once for every subscriber.
type Message struct {
	Topics []string
	Data   []byte
}

// Broadcaster delivers messages to every subscriber without blocking the
// publisher; a subscriber that falls behind misses messages.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
	last *Message
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Message]struct{}),
	}
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Publish(msg Message) {
	b.mu.Lock()
	b.last = &msg
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	b.mu.Unlock()
}

// Last returns the most recent message, if any.
func (b *Broadcaster) Last() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return Message{}, false
	}
	return *b.last, true
}

// Subscribers returns the number of open subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

type payload struct {
	Topics []string `json:"topics"`
	State  any      `json:"state"`
}

// Encode builds a Message carrying {topics, state} as JSON.
func Encode(topics []string, state any) (Message, error) {
	data, err := json.Marshal(payload{Topics: topics, State: state})
	if err != nil {
		return Message{}, err
	}
	return Message{Topics: topics, Data: data}, nil
}
