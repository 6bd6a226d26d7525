package harvest

import "github.com/tOgg1/threadcopy/internal/models"

// Entry is one harvested message together with its key.
type Entry struct {
	Key     string
	Message models.Message
}

// Accumulator collects messages by key across scroll steps.
// The first message stored under a key wins; entries are never removed.
type Accumulator struct {
	byKey map[string]models.Message
	order []string
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byKey: make(map[string]models.Message)}
}

// Has reports whether key was already harvested.
func (a *Accumulator) Has(key string) bool {
	_, ok := a.byKey[key]
	return ok
}

// Add stores msg under key unless key is already present.
// It reports whether msg was stored.
func (a *Accumulator) Add(key string, msg models.Message) bool {
	if a.Has(key) {
		return false
	}
	a.byKey[key] = msg
	a.order = append(a.order, key)
	return true
}

// Len returns the number of distinct keys.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Entries returns the harvested messages in insertion order.
func (a *Accumulator) Entries() []Entry {
	entries := make([]Entry, 0, len(a.order))
	for _, key := range a.order {
		entries = append(entries, Entry{Key: key, Message: a.byKey[key]})
	}
	return entries
}
