package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/tOgg1/threadcopy/internal/events"
	"github.com/tOgg1/threadcopy/internal/models"
)

// EventStreamer writes harvest progress events to an output writer in JSONL format.
type EventStreamer struct {
	out    io.Writer
	filter events.Filter

	mu  sync.Mutex
	err error
}

// NewEventStreamer creates a new event streamer.
func NewEventStreamer(out io.Writer, filter events.Filter) *EventStreamer {
	return &EventStreamer{out: out, filter: filter}
}

// Attach subscribes the streamer to publisher and returns a detach function.
func (s *EventStreamer) Attach(publisher events.Publisher) (func(), error) {
	id := "stream-" + uuid.NewString()
	if err := publisher.Subscribe(id, s.filter, s.handle); err != nil {
		return nil, fmt.Errorf("subscribe event stream: %w", err)
	}
	return func() { _ = publisher.Unsubscribe(id) }, nil
}

// Err returns the first write error, if any.
func (s *EventStreamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *EventStreamer) handle(event *models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	s.err = s.writeEvent(event)
}

// writeEvent writes a single event as JSONL.
func (s *EventStreamer) writeEvent(event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, string(data))
	return err
}
