package harvest

import (
	"sort"

	"github.com/tOgg1/threadcopy/internal/extract"
	"github.com/tOgg1/threadcopy/internal/models"
)

// Assemble orders entries chronologically and repairs compact authors.
//
// Keys compare as numbers, so "10.0" sorts after "2.0". Keys with no
// numeric prefix sort after every numeric key, ordered by the key string.
func Assemble(entries []Entry) []models.Message {
	type keyed struct {
		num     float64
		numeric bool
		entry   Entry
	}
	sorted := make([]keyed, 0, len(entries))
	for _, entry := range entries {
		num, ok := extract.ParseFloat(entry.Key)
		sorted = append(sorted, keyed{num: num, numeric: ok, entry: entry})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.numeric != b.numeric {
			return a.numeric
		}
		if a.numeric && a.num != b.num {
			return a.num < b.num
		}
		return a.entry.Key < b.entry.Key
	})

	messages := make([]models.Message, 0, len(sorted))
	for _, k := range sorted {
		messages = append(messages, k.entry.Message)
	}
	RepairAuthors(messages)
	return messages
}

// RepairAuthors fills messages rendered without an author label with the
// closest known author before them. Leading unknowns stay unknown.
func RepairAuthors(messages []models.Message) {
	running := models.UnknownAuthor
	for i := range messages {
		if messages[i].HasKnownAuthor() {
			running = messages[i].Author
			continue
		}
		messages[i].Author = running
	}
}
