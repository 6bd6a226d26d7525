package harvest

import (
	"context"
	"errors"
	"fmt"

	"github.com/tOgg1/threadcopy/internal/extract"
	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Snapshot returns every message container currently rendered in panel,
// in document order, regardless of scroll position.
func Snapshot(ctx context.Context, panel page.Element) ([]page.Element, error) {
	elements, err := panel.QuerySelectorAll(ctx, extract.SelMessageContainer)
	if err != nil {
		return nil, fmt.Errorf("list message containers: %w", err)
	}
	return elements, nil
}

// harvestInto extracts every rendered message whose key is not yet in acc.
// Messages without body text, and elements re-rendered away mid-read, are
// skipped and may be picked up on a later step.
func harvestInto(ctx context.Context, panel page.Element, acc *Accumulator) error {
	elements, err := Snapshot(ctx, panel)
	if err != nil {
		return err
	}
	for _, el := range elements {
		key, ok, err := extract.Key(ctx, el)
		if errors.Is(err, page.ErrDetached) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read message key: %w", err)
		}
		if !ok || acc.Has(key) {
			continue
		}
		msg, ok, err := extract.Message(ctx, el)
		if errors.Is(err, page.ErrDetached) {
			continue
		}
		if err != nil {
			return fmt.Errorf("extract message %s: %w", key, err)
		}
		if ok {
			acc.Add(key, msg)
		}
	}
	return nil
}

// harvestOnce extracts the rendered messages of a panel that does not
// scroll. Elements re-rendered away mid-read are skipped. Document order is already chronological, so authors are
// propagated inline instead of through Assemble.
func (x *Extractor) harvestOnce(ctx context.Context, panel page.Element) (models.Result, error) {
	elements, err := Snapshot(ctx, panel)
	if err != nil {
		return models.Result{}, err
	}
	if len(elements) == 0 {
		return models.Failed(models.ErrorNoMessages), nil
	}

	messages := make([]models.Message, 0, len(elements))
	lastAuthor := models.UnknownAuthor
	for _, el := range elements {
		msg, ok, err := extract.Message(ctx, el)
		if errors.Is(err, page.ErrDetached) {
			continue
		}
		if err != nil {
			return models.Result{}, fmt.Errorf("extract message: %w", err)
		}
		// An author label counts even when its message has no body.
		if msg.HasKnownAuthor() {
			lastAuthor = msg.Author
		}
		if !ok {
			continue
		}
		msg.Author = lastAuthor
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return models.Failed(models.ErrorNoText), nil
	}
	return models.Succeeded(messages), nil
}
