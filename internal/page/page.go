// Package page defines the read/scroll capability extraction needs from a rendered document.
//
// Implementations wrap a live browser tab (cdppage) or a saved HTML snapshot (htmlpage).
// Handles are views into externally owned, mutable state: an Element may stop
// resolving once the host page re-renders.
package page

import (
	"context"
	"errors"
)

// ErrDetached is returned when an element handle no longer resolves to a node.
var ErrDetached = errors.New("element is no longer attached to the document")

// Document is the root of a rendered page.
type Document interface {
	// QuerySelector returns the first element matching selector, or nil when none does.
	QuerySelector(ctx context.Context, selector string) (Element, error)
}

// Element is an opaque handle to one rendered node.
type Element interface {
	// QuerySelector returns the first matching descendant, or nil.
	QuerySelector(ctx context.Context, selector string) (Element, error)

	// QuerySelectorAll returns matching descendants in document order.
	QuerySelectorAll(ctx context.Context, selector string) ([]Element, error)

	// Attribute reads an attribute. ok is false when the attribute is absent.
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)

	// TextContent returns the concatenated text of the subtree.
	TextContent(ctx context.Context) (string, error)

	// OuterHTML serializes the subtree, including the element itself.
	OuterHTML(ctx context.Context) (string, error)

	// Visible reports whether the element is rendered with a non-zero box
	// and is not hidden by display or visibility styling.
	Visible(ctx context.Context) (bool, error)

	// ScrollMetrics reads the element's scroll state.
	ScrollMetrics(ctx context.Context) (ScrollMetrics, error)

	// SetScrollTop moves the scroll offset. The host may clamp the value.
	SetScrollTop(ctx context.Context, top float64) error

	// SameNode reports whether other refers to the same node.
	SameNode(other Element) bool
}

// ScrollMetrics mirrors the DOM scrollTop, scrollHeight and clientHeight properties.
type ScrollMetrics struct {
	Top          float64 `json:"scroll_top"`
	Height       float64 `json:"scroll_height"`
	ClientHeight float64 `json:"client_height"`
}

// Scrollable reports whether content overflows the visible area.
func (m ScrollMetrics) Scrollable() bool {
	return m.Height > m.ClientHeight
}

// MaxTop is the largest offset a browser would accept.
func (m ScrollMetrics) MaxTop() float64 {
	if m.Height <= m.ClientHeight {
		return 0
	}
	return m.Height - m.ClientHeight
}

// First runs QuerySelector against each selector in order and returns the first hit.
func First(ctx context.Context, root Element, selectors ...string) (Element, error) {
	for _, selector := range selectors {
		el, err := root.QuerySelector(ctx, selector)
		if err != nil {
			return nil, err
		}
		if el != nil {
			return el, nil
		}
	}
	return nil, nil
}
