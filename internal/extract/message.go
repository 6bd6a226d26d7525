// Package extract pulls author, timestamp, body text and reactions out of one
// rendered message element.
//
// Field-level failures never escalate: a missing author becomes
// models.UnknownAuthor, a missing timestamp is nil, missing reactions are
// omitted, and a missing body drops the message. Only errors from the page
// capability itself are returned.
package extract

import (
	"context"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Key returns the message key used for deduplication and ordering.
func Key(ctx context.Context, el page.Element) (string, bool, error) {
	key, ok, err := el.Attribute(ctx, AttrMessageKey)
	if err != nil || !ok || key == "" {
		return "", false, err
	}
	return key, true, nil
}

// Message extracts every field of el. ok is false when the element has no
// usable body text, in which case the message must be dropped; the returned
// message then carries only the author and timestamp.
func Message(ctx context.Context, el page.Element) (models.Message, bool, error) {
	author, err := Author(ctx, el)
	if err != nil {
		return models.Message{}, false, err
	}
	timestamp, err := Timestamp(ctx, el)
	if err != nil {
		return models.Message{}, false, err
	}
	text, ok, err := Text(ctx, el)
	if err != nil {
		return models.Message{}, false, err
	}
	reactions, err := Reactions(ctx, el)
	if err != nil {
		return models.Message{}, false, err
	}
	msg := models.Message{
		Author:    author,
		Timestamp: timestamp,
	}
	if !ok {
		return msg, false, nil
	}

	msg.Text = text
	if len(reactions) > 0 {
		msg.Reactions = reactions
	}
	return msg, true, nil
}
