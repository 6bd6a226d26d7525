package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/threadcopy/internal/models"
)

func TestAccumulatorFirstSeenWins(t *testing.T) {
	acc := NewAccumulator()
	require.True(t, acc.Add("2.0", models.Message{Author: "a", Text: "first"}))
	require.False(t, acc.Add("2.0", models.Message{Author: "b", Text: "second"}))
	require.True(t, acc.Add("1.0", models.Message{Author: "c", Text: "third"}))

	require.True(t, acc.Has("2.0"))
	require.False(t, acc.Has("3.0"))
	require.Equal(t, 2, acc.Len())

	entries := acc.Entries()
	require.Equal(t, "2.0", entries[0].Key)
	require.Equal(t, "first", entries[0].Message.Text)
	require.Equal(t, "1.0", entries[1].Key)
}

func TestAssembleSortsNumerically(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{
			name: "numeric not lexicographic",
			keys: []string{"10.0", "2.0"},
			want: []string{"2.0", "10.0"},
		},
		{
			name: "fractional slack keys",
			keys: []string{"1700000000.000300", "1700000000.000100", "1700000000.000200"},
			want: []string{"1700000000.000100", "1700000000.000200", "1700000000.000300"},
		},
		{
			name: "non-numeric keys last",
			keys: []string{"zz", "5", "aa", "1"},
			want: []string{"1", "5", "aa", "zz"},
		},
		{
			name: "equal values tie on key text",
			keys: []string{"1.50", "1.5"},
			want: []string{"1.5", "1.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]Entry, 0, len(tt.keys))
			for _, key := range tt.keys {
				entries = append(entries, Entry{Key: key, Message: models.Message{Author: "x", Text: key}})
			}
			messages := Assemble(entries)
			got := make([]string, 0, len(messages))
			for _, msg := range messages {
				got = append(got, msg.Text)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRepairAuthors(t *testing.T) {
	messages := []models.Message{
		{Author: models.UnknownAuthor, Text: "orphan"},
		{Author: "alice", Text: "1"},
		{Author: models.UnknownAuthor, Text: "2"},
		{Author: models.UnknownAuthor, Text: "3"},
		{Author: "bob", Text: "4"},
		{Author: models.UnknownAuthor, Text: "5"},
	}
	RepairAuthors(messages)

	got := make([]string, 0, len(messages))
	for _, msg := range messages {
		got = append(got, msg.Author)
	}
	require.Equal(t, []string{models.UnknownAuthor, "alice", "alice", "alice", "bob", "bob"}, got)
}

func TestAssembleEmpty(t *testing.T) {
	require.Empty(t, Assemble(nil))
}
