package models

import (
	"time"
)

// EventType categorizes harvest progress events.
type EventType string

const (
	EventTypeHarvestStarted  EventType = "harvest.started"
	EventTypeHarvestFallback EventType = "harvest.fallback"
	EventTypeHarvestStep     EventType = "harvest.step"
	EventTypeHarvestFinished EventType = "harvest.finished"
)

// StopReason says why the scroll loop ended.
type StopReason string

const (
	// StopReasonStuck means the scroll offset stopped moving.
	StopReasonStuck StopReason = "stuck"

	// StopReasonIterationCap means the iteration bound was exceeded.
	StopReasonIterationCap StopReason = "iteration_cap"
)

// Event reports progress of one extraction run.
type Event struct {
	// Type categorizes the event.
	Type EventType `json:"type"`

	// RunID identifies the extraction the event belongs to.
	RunID string `json:"run_id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Iteration is the 1-based scroll step, zero outside the loop.
	Iteration int `json:"iteration,omitempty"`

	// Harvested is the accumulator size after the step.
	Harvested int `json:"harvested"`

	// ScrollTop is the scroll offset after the advance.
	ScrollTop float64 `json:"scroll_top,omitempty"`

	// Stuck is the consecutive no-progress count.
	Stuck int `json:"stuck,omitempty"`

	// StopReason is set on the finished event of a scrolling run.
	StopReason StopReason `json:"stop_reason,omitempty"`

	// Outcome is the error kind on the finished event, empty on success.
	Outcome ErrorKind `json:"outcome,omitempty"`
}
