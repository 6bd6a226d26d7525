package harvest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/threadcopy/internal/extract"
	"github.com/tOgg1/threadcopy/internal/page"
	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
)

type row struct {
	key    string
	author string
	text   string
}

// virtualList renders only the rows intersecting its scroll window, the way
// the chat client's windowed list does.
type virtualList struct {
	rows         []page.Element
	rowHeight    float64
	clientHeight float64
	// endless makes the content taller than any offset the loop can reach.
	endless bool
	// separateScroller puts the overflow on .c-virtual_list instead of the wrapper.
	separateScroller bool

	scroller *fakeScroller
	wrapper  *fakeScroller
}

func newVirtualList(t *testing.T, rows []row) *virtualList {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, r := range rows {
		fmt.Fprintf(&b, `<div data-qa="message_container" data-msg-ts="%s">`, r.key)
		if r.author != "" {
			fmt.Fprintf(&b, `<span data-qa="message_sender_name">%s</span>`, r.author)
		}
		if r.text != "" {
			fmt.Fprintf(&b, `<div data-qa="message-text">%s</div>`, r.text)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString("</body></html>")

	doc, err := htmlpage.Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	body, err := doc.QuerySelector(context.Background(), "body")
	require.NoError(t, err)
	elements, err := body.QuerySelectorAll(context.Background(), extract.SelMessageContainer)
	require.NoError(t, err)
	require.Len(t, elements, len(rows))

	list := &virtualList{rows: elements, rowHeight: 100, clientHeight: 200}
	list.scroller = &fakeScroller{list: list}
	list.wrapper = list.scroller
	return list
}

func (l *virtualList) withSeparateScroller() *virtualList {
	l.separateScroller = true
	l.wrapper = &fakeScroller{list: l, inert: true}
	return l
}

func (l *virtualList) height() float64 {
	if l.endless {
		return math.MaxFloat32
	}
	return float64(len(l.rows)) * l.rowHeight
}

// rendered returns the rows inside the current window.
func (l *virtualList) rendered() []page.Element {
	top := l.scroller.top
	first := int(top / l.rowHeight)
	last := int(math.Ceil((top + l.clientHeight) / l.rowHeight))
	if first > len(l.rows) {
		first = len(l.rows)
	}
	if last > len(l.rows) {
		last = len(l.rows)
	}
	return append([]page.Element(nil), l.rows[first:last]...)
}

type fakeDocument struct {
	panel page.Element
}

func (d *fakeDocument) QuerySelector(_ context.Context, selector string) (page.Element, error) {
	if selector == extract.SelThreadsFlexpane && d.panel != nil {
		return d.panel, nil
	}
	return nil, nil
}

// fakeElement answers every capability with an empty, visible node.
type fakeElement struct{}

func (fakeElement) QuerySelector(context.Context, string) (page.Element, error) { return nil, nil }
func (fakeElement) QuerySelectorAll(context.Context, string) ([]page.Element, error) {
	return nil, nil
}
func (fakeElement) Attribute(context.Context, string) (string, bool, error) { return "", false, nil }
func (fakeElement) TextContent(context.Context) (string, error)              { return "", nil }
func (fakeElement) OuterHTML(context.Context) (string, error)                { return "", nil }
func (fakeElement) Visible(context.Context) (bool, error)                    { return true, nil }
func (fakeElement) ScrollMetrics(context.Context) (page.ScrollMetrics, error) {
	return page.ScrollMetrics{}, nil
}
func (fakeElement) SetScrollTop(context.Context, float64) error { return nil }
func (fakeElement) SameNode(page.Element) bool                 { return false }

type fakePanel struct {
	fakeElement
	list *virtualList
}

func (p *fakePanel) QuerySelector(_ context.Context, selector string) (page.Element, error) {
	switch selector {
	case extract.SelScrollWrapper:
		if p.list.wrapper == nil {
			return nil, nil
		}
		return p.list.wrapper, nil
	case extract.SelVirtualList:
		if p.list.separateScroller {
			return p.list.scroller, nil
		}
	}
	return nil, nil
}

func (p *fakePanel) QuerySelectorAll(_ context.Context, selector string) ([]page.Element, error) {
	if selector != extract.SelMessageContainer {
		return nil, nil
	}
	return p.list.rendered(), nil
}

type fakeScroller struct {
	fakeElement
	list *virtualList
	top  float64
	// inert elements report no overflow and only record writes.
	inert bool
	sets  []float64
}

func (s *fakeScroller) ScrollMetrics(context.Context) (page.ScrollMetrics, error) {
	if s.inert {
		return page.ScrollMetrics{Top: s.top, Height: s.list.clientHeight, ClientHeight: s.list.clientHeight}, nil
	}
	return page.ScrollMetrics{Top: s.top, Height: s.list.height(), ClientHeight: s.list.clientHeight}, nil
}

func (s *fakeScroller) SetScrollTop(ctx context.Context, top float64) error {
	s.sets = append(s.sets, top)
	metrics, _ := s.ScrollMetrics(ctx)
	s.top = math.Max(0, math.Min(top, metrics.MaxTop()))
	return nil
}

func (s *fakeScroller) SameNode(other page.Element) bool {
	o, ok := other.(*fakeScroller)
	return ok && o == s
}

func newFakeDocument(list *virtualList) *fakeDocument {
	return &fakeDocument{panel: &fakePanel{list: list}}
}

// recordingSleeper returns immediately and remembers requested delays.
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

// detachedElement stands in for a node the host removed between listing and reading.
type detachedElement struct {
	fakeElement
}

func (detachedElement) Attribute(context.Context, string) (string, bool, error) {
	return "", false, page.ErrDetached
}
