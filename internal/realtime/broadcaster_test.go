package realtime

import "testing"

func msg(topic string) Message {
	return Message{Topics: []string{topic}, Data: []byte(`{"topic":"` + topic + `"}`)}
}

func TestBroadcaster_PublishDeliversToSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(msg("round"))
	if got := <-ch1; got.Topics[0] != "round" {
		t.Errorf("ch1 got %q, want round", got.Topics[0])
	}
	if got := <-ch2; got.Topics[0] != "round" {
		t.Errorf("ch2 got %q, want round", got.Topics[0])
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}
	b.Unsubscribe(ch) // second call is a no-op
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 100; i++ {
		b.Publish(msg("guesses"))
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d, want %d", len(ch), cap(ch))
	}
}

func TestBroadcaster_Last(t *testing.T) {
	b := NewBroadcaster()
	if _, ok := b.Last(); ok {
		t.Fatal("Last on empty broadcaster reported ok")
	}
	b.Publish(msg("round"))
	b.Publish(msg("status"))
	last, ok := b.Last()
	if !ok || last.Topics[0] != "status" {
		t.Errorf("got %+v, want status", last)
	}
}

func TestEncode(t *testing.T) {
	m, err := Encode([]string{"round", "guesses"}, map[string]int{"n": 1})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"topics":["round","guesses"],"state":{"n":1}}`
	if string(m.Data) != want {
		t.Errorf("got %s, want %s", m.Data, want)
	}
	if len(m.Topics) != 2 {
		t.Errorf("topics %v", m.Topics)
	}
}
