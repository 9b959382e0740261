package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/engine"
	"github.com/robalobadob/wordle-live/internal/realtime"
)

const keepAliveInterval = 25 * time.Second

// handleStream sends the current state, then one "snapshot" event per
// flushed update, until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming_unsupported"}`, http.StatusInternalServerError)
		return
	}
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Subscribe before reading the initial state so no update falls in between.
	ch := s.bc.Subscribe()
	defer s.bc.Unsubscribe(ch)

	initial, err := s.initialMessage(r)
	if err != nil {
		s.engineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := writeSSE(w, "snapshot", initial.Data); err != nil {
		return
	}
	flusher.Flush()
	logger.Debug().Int("subscribers", s.bc.Subscribers()).Msg("stream opened")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("stream closed")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := writeSSE(w, "snapshot", msg.Data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// initialMessage is a full snapshot naming every topic. A stopped engine
// falls back to the last broadcast state.
func (s *Server) initialMessage(r *http.Request) (realtime.Message, error) {
	snap, err := s.engine.Snapshot(r.Context())
	if err != nil {
		if msg, ok := s.bc.Last(); ok {
			return msg, nil
		}
		return realtime.Message{}, err
	}
	return realtime.Encode(engine.TopicNames(), snap)
}

func writeSSE(w http.ResponseWriter, event string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
