package extract

import (
	"context"
	"strings"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Author returns the sender label of el, or models.UnknownAuthor.
// Compact renderings omit the label for consecutive messages from one sender.
func Author(ctx context.Context, el page.Element) (string, error) {
	for _, selector := range AuthorSelectors {
		label, err := el.QuerySelector(ctx, selector)
		if err != nil {
			return "", err
		}
		if label == nil {
			continue
		}
		text, err := label.TextContent(ctx)
		if err != nil {
			return "", err
		}
		if name := strings.TrimSpace(text); name != "" {
			return name, nil
		}
	}
	return models.UnknownAuthor, nil
}
