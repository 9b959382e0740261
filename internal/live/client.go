// internal/live/client.go
//
// Websocket client for the live broadcast relay.
//
// Protocol:
//   - After dialing, the client sends
//     {"type":"setUniqueId","uniqueId":"<host>","options":{"enableExtendedGiftInfo":true}}.
//   - The relay answers with envelopes {"event":"<name>","data":<payload>}:
//     chat, gift, social, like, roomUser carry audience events;
//     tiktokConnected, tiktokDisconnected (data = reason), streamEnd
//     describe the broadcast connection.
//
// Reconnect policy:
//   - Any disconnect is retried every RetryInterval (5s) until the context
//     ends, unless the relay reports that the stream ended.

package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var ErrStreamEnded = errors.New("live: stream ended")

const (
	eventConnected    = "tiktokConnected"
	eventDisconnected = "tiktokDisconnected"
	eventStreamEnd    = "streamEnd"
)

type ClientConfig struct {
	URL           string // ws:// or wss:// relay endpoint
	UniqueID      string // broadcaster handle
	RetryInterval time.Duration
}

type Client struct {
	cfg    ClientConfig
	dialer *websocket.Dialer
	sink   Sink
	seq    *Sequencer
	logger zerolog.Logger
}

func NewClient(cfg ClientConfig, sink Sink, seq *Sequencer, logger zerolog.Logger) *Client {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		sink:   sink,
		seq:    seq,
		logger: logger.With().Str("component", "live").Str("uniqueId", cfg.UniqueID).Logger(),
	}
}

type setUniqueID struct {
	Type     string         `json:"type"`
	UniqueID string         `json:"uniqueId"`
	Options  map[string]any `json:"options"`
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Run keeps a relay session open until ctx ends or the stream ends.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrStreamEnded) {
			c.logger.Info().Msg("stream ended, not reconnecting")
			return nil
		}

		reason := "disconnected"
		if err != nil {
			reason = err.Error()
		}
		c.logger.Warn().Str("reason", reason).Dur("retry", c.cfg.RetryInterval).Msg("relay disconnected")
		c.sink.Status(Status{Seq: c.seq.Next(), Reason: reason})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.RetryInterval):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	hello := setUniqueID{
		Type:     "setUniqueId",
		UniqueID: c.cfg.UniqueID,
		Options:  map[string]any{"enableExtendedGiftInfo": true},
	}
	if err := conn.WriteJSON(hello); err != nil {
		return fmt.Errorf("send setUniqueId: %w", err)
	}
	c.logger.Info().Str("url", c.cfg.URL).Msg("relay session opened")

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return fmt.Errorf("read relay: %w", err)
		}
		if err := c.handle(env); err != nil {
			if errors.Is(err, ErrStreamEnded) || !errors.Is(err, ErrUnknownEvent) {
				return err
			}
			c.logger.Debug().Str("event", env.Event).Msg("ignoring relay event")
		}
	}
}

func (c *Client) handle(env envelope) error {
	switch env.Event {
	case eventConnected:
		var state struct {
			RoomID string `json:"roomId"`
		}
		_ = json.Unmarshal(env.Data, &state)
		c.sink.Status(Status{Seq: c.seq.Next(), Connected: true, RoomID: state.RoomID})
		return nil

	case eventDisconnected:
		var reason string
		if err := json.Unmarshal(env.Data, &reason); err != nil {
			reason = string(env.Data)
		}
		if strings.Contains(strings.ToLower(reason), "stream ended") {
			c.sink.Status(Status{Seq: c.seq.Next(), Reason: reason, Ended: true})
			return ErrStreamEnded
		}
		return errors.New(reason)

	case eventStreamEnd:
		c.sink.Status(Status{Seq: c.seq.Next(), Reason: "Stream ended.", Ended: true})
		return ErrStreamEnded
	}

	if err := Deliver(c.sink, c.seq, env.Event, env.Data); err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			return err
		}
		// A malformed payload is logged and skipped; the session stays up.
		c.logger.Warn().Err(err).Str("event", env.Event).Msg("bad relay payload")
	}
	return nil
}
