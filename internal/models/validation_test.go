package models

import (
	"errors"
	"testing"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add(PathAuthor, ErrEmptyAuthor)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrEmptyAuthor) {
		t.Fatalf("expected errors.Is to match ErrEmptyAuthor, got %v", err)
	}
	if errors.Is(err, ErrEmptyText) {
		t.Fatalf("did not expect ErrEmptyText in %v", err)
	}

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Path != PathAuthor {
		t.Fatalf("expected FieldError at author, got %v", err)
	}
}

func TestValidationErrorsRebaseNestedPaths(t *testing.T) {
	msg := Message{Author: "a", Text: "b", Reactions: []Reaction{{Emoji: ":x:", Count: 1}, {Emoji: ":y:"}}}

	validation := &ValidationErrors{}
	validation.Add(MessagePath(3), msg.Validate())

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	paths := validation.Paths()
	if len(paths) != 1 || paths[0] != "thread.messages[3].reactions[1].count" {
		t.Fatalf("unexpected paths %v", paths)
	}
	want := "invalid result: thread.messages[3].reactions[1].count: reaction count must be positive"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFieldPathJoin(t *testing.T) {
	tests := []struct {
		parent, child, want FieldPath
	}{
		{PathRoot, PathError, "error"},
		{MessagePath(0), PathRoot, "thread.messages[0]"},
		{MessagePath(1), ReactionPath(2).Join(PathEmoji), "thread.messages[1].reactions[2].emoji"},
	}
	for _, tt := range tests {
		if got := tt.parent.Join(tt.child); got != tt.want {
			t.Errorf("%q.Join(%q) = %q, want %q", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add(PathAuthor, nil)
	validation.Add(MessagePath(0), (&Message{Author: "a", Text: "b"}).Validate())
	if err := validation.Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
