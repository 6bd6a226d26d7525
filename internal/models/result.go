package models

import "fmt"

// ErrorKind is the closed set of whole-extraction failures.
type ErrorKind string

const (
	// ErrorNoDrawer means no visible thread panel was found.
	ErrorNoDrawer ErrorKind = "no_drawer"

	// ErrorNoMessages means the panel held no usable messages.
	ErrorNoMessages ErrorKind = "no_messages"

	// ErrorNoText means message elements existed but none had text.
	// Only the non-scrolling path reports it.
	ErrorNoText ErrorKind = "no_text"
)

// Valid reports whether k is one of the known kinds.
func (k ErrorKind) Valid() bool {
	switch k {
	case ErrorNoDrawer, ErrorNoMessages, ErrorNoText:
		return true
	}
	return false
}

// Err returns the sentinel error for k, or nil for the empty kind.
func (k ErrorKind) Err() error {
	switch k {
	case "":
		return nil
	case ErrorNoDrawer:
		return ErrNoDrawer
	case ErrorNoMessages:
		return ErrNoMessages
	case ErrorNoText:
		return ErrNoText
	default:
		return fmt.Errorf("%w: %s", ErrUnknownErrorKind, string(k))
	}
}

// Thread is an ordered, chronological message list.
type Thread struct {
	Messages []Message `json:"messages"`
}

// Result is the outcome of one extraction. Exactly one field is set.
type Result struct {
	Error  ErrorKind `json:"error,omitempty"`
	Thread *Thread   `json:"thread,omitempty"`
}

// Failed builds an error result.
func Failed(kind ErrorKind) Result {
	return Result{Error: kind}
}

// Succeeded builds a thread result.
func Succeeded(messages []Message) Result {
	if messages == nil {
		messages = []Message{}
	}
	return Result{Thread: &Thread{Messages: messages}}
}

// OK reports whether the result carries a thread.
func (r Result) OK() bool {
	return r.Error == "" && r.Thread != nil
}

// Messages returns the thread messages, or nil for an error result.
func (r Result) Messages() []Message {
	if r.Thread == nil {
		return nil
	}
	return r.Thread.Messages
}

// Err returns the sentinel error matching the result's kind.
func (r Result) Err() error {
	return r.Error.Err()
}

// WithoutReactions returns a copy of r with every message's reactions dropped.
func (r Result) WithoutReactions() Result {
	if r.Thread == nil {
		return r
	}
	messages := make([]Message, len(r.Thread.Messages))
	for i, msg := range r.Thread.Messages {
		msg.Reactions = nil
		messages[i] = msg
	}
	return Result{Thread: &Thread{Messages: messages}}
}

// Validate checks that exactly one variant is populated and every message is well formed.
func (r Result) Validate() error {
	validation := &ValidationErrors{}
	switch {
	case r.Error != "" && r.Thread != nil, r.Error == "" && r.Thread == nil:
		validation.Add(PathRoot, ErrAmbiguousResult)
	case r.Error != "":
		if !r.Error.Valid() {
			validation.Add(PathError, ErrUnknownErrorKind)
		}
	default:
		for i := range r.Thread.Messages {
			validation.Add(MessagePath(i), r.Thread.Messages[i].Validate())
		}
	}
	return validation.Err()
}
