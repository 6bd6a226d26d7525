package models

import "errors"

// Validation errors.
var (
	ErrEmptyAuthor      = errors.New("author is required")
	ErrEmptyText        = errors.New("message text is required")
	ErrInvalidTimestamp = errors.New("timestamp must be ISO-8601")
	ErrEmptyEmoji       = errors.New("reaction emoji is required")
	ErrInvalidCount     = errors.New("reaction count must be positive")
	ErrAmbiguousResult  = errors.New("result must carry exactly one of error or thread")
	ErrUnknownErrorKind = errors.New("unknown error kind")
)

// Extraction outcome errors, one per ErrorKind.
var (
	ErrNoDrawer   = errors.New("no thread panel is open")
	ErrNoMessages = errors.New("thread panel has no messages")
	ErrNoText     = errors.New("thread messages have no text")
)
