// Package models defines the thread and message types produced by extraction.
package models

import (
	"time"
)

// UnknownAuthor is used when no author label could be resolved.
const UnknownAuthor = "Unknown"

// TimestampLayout is the ISO-8601 layout used for message timestamps.
// It matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Reaction is one emoji reaction attached to a message.
type Reaction struct {
	// Emoji is the shortcode or literal emoji, e.g. ":tada:" or "🎉".
	Emoji string `json:"emoji"`

	// Count is how many people reacted. Always positive.
	Count int `json:"count"`
}

// Message is one extracted chat message.
type Message struct {
	// Author is the sender's display name, or UnknownAuthor.
	Author string `json:"author"`

	// Timestamp is the ISO-8601 send time, nil when not recoverable.
	Timestamp *string `json:"timestamp"`

	// Text is the cleaned body text. Never empty in a result.
	Text string `json:"text"`

	// Reactions is omitted when the message has none.
	Reactions []Reaction `json:"reactions,omitempty"`
}

// HasKnownAuthor reports whether the author label was resolved.
func (m *Message) HasKnownAuthor() bool {
	return m.Author != "" && m.Author != UnknownAuthor
}

// Time parses the timestamp. The second return is false when absent or malformed.
func (m *Message) Time() (time.Time, bool) {
	if m.Timestamp == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(TimestampLayout, *m.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks the invariants every emitted message satisfies.
func (m *Message) Validate() error {
	validation := &ValidationErrors{}
	if m.Author == "" {
		validation.Add(PathAuthor, ErrEmptyAuthor)
	}
	if m.Text == "" {
		validation.Add(PathText, ErrEmptyText)
	}
	if _, ok := m.Time(); m.Timestamp != nil && !ok {
		validation.Add(PathTimestamp, ErrInvalidTimestamp)
	}
	for i := range m.Reactions {
		validation.Add(ReactionPath(i), m.Reactions[i].Validate())
	}
	return validation.Err()
}

// Validate checks that the reaction has an emoji and a positive count.
func (r Reaction) Validate() error {
	validation := &ValidationErrors{}
	if r.Emoji == "" {
		validation.Add(PathEmoji, ErrEmptyEmoji)
	}
	if r.Count <= 0 {
		validation.Add(PathCount, ErrInvalidCount)
	}
	return validation.Err()
}

// FormatTimestamp renders t the way message timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
