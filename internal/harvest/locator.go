package harvest

import (
	"context"

	"github.com/tOgg1/threadcopy/internal/extract"
	"github.com/tOgg1/threadcopy/internal/page"
)

// FindPanel returns the first thread panel candidate that exists and is
// visible, or nil when the thread view is not open.
func FindPanel(ctx context.Context, doc page.Document) (page.Element, error) {
	for _, selector := range extract.PanelSelectors {
		el, err := doc.QuerySelector(ctx, selector)
		if err != nil {
			return nil, err
		}
		if el == nil {
			continue
		}
		visible, err := el.Visible(ctx)
		if err != nil {
			return nil, err
		}
		if visible {
			return el, nil
		}
	}
	return nil, nil
}

// ResolveScroller picks the element that actually scrolls: the first
// candidate whose content overflows its visible height. The wrapper itself
// is tried first and is also the default when nothing overflows.
func ResolveScroller(ctx context.Context, panel, wrapper page.Element) (page.Element, error) {
	candidates := []page.Element{wrapper}
	for _, selector := range []string{
		extract.SelVirtualList,
		extract.SelVirtualListScroller,
		extract.SelSlackKitScrollbar,
	} {
		el, err := panel.QuerySelector(ctx, selector)
		if err != nil {
			return nil, err
		}
		if el != nil {
			candidates = append(candidates, el)
		}
	}

	for _, el := range candidates {
		metrics, err := el.ScrollMetrics(ctx)
		if err != nil {
			return nil, err
		}
		if metrics.Scrollable() {
			return el, nil
		}
	}
	return wrapper, nil
}
