package extract

import (
	"context"
	"strings"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Reactions returns the qualifying reactions of el in DOM order.
// A button counts only when it has an emoji image with a non-empty value and
// a count label that parses to a positive integer. Repeated emoji are kept.
func Reactions(ctx context.Context, el page.Element) ([]models.Reaction, error) {
	buttons, err := el.QuerySelectorAll(ctx, SelReactionButton)
	if err != nil {
		return nil, err
	}

	var reactions []models.Reaction
	for _, btn := range buttons {
		r, ok, err := reaction(ctx, btn)
		if err != nil {
			return nil, err
		}
		if ok {
			reactions = append(reactions, r)
		}
	}
	return reactions, nil
}

func reaction(ctx context.Context, btn page.Element) (models.Reaction, bool, error) {
	img, err := btn.QuerySelector(ctx, SelEmojiImage)
	if err != nil || img == nil {
		return models.Reaction{}, false, err
	}
	countEl, err := btn.QuerySelector(ctx, SelReactionCount)
	if err != nil || countEl == nil {
		return models.Reaction{}, false, err
	}

	emoji, err := emojiValue(ctx, img)
	if err != nil {
		return models.Reaction{}, false, err
	}
	label, err := countEl.TextContent(ctx)
	if err != nil {
		return models.Reaction{}, false, err
	}
	count, _ := ParseInt(strings.TrimSpace(label))

	if emoji == "" || count <= 0 {
		return models.Reaction{}, false, nil
	}
	return models.Reaction{Emoji: emoji, Count: count}, true, nil
}

// emojiValue reads the stringified emoji of an image, falling back to alt text.
func emojiValue(ctx context.Context, img page.Element) (string, error) {
	value, _, err := img.Attribute(ctx, AttrStringifyEmoji)
	if err != nil || value != "" {
		return value, err
	}
	alt, _, err := img.Attribute(ctx, "alt")
	return alt, err
}
