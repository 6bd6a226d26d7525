// Package htmlpage implements page.Document over a saved HTML snapshot.
//
// A snapshot has no layout engine: an element is visible unless an inline
// style or the hidden attribute hides it (or pins its size to zero), and
// scroll metrics come from data-scroll-* annotations written when the
// snapshot was captured. Scroll offsets are kept in memory and clamped the
// way a browser clamps them.
package htmlpage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tOgg1/threadcopy/internal/page"
)

// Snapshot annotations carrying scroll state.
const (
	AttrScrollTop    = "data-scroll-top"
	AttrScrollHeight = "data-scroll-height"
	AttrClientHeight = "data-client-height"
)

// Document is a parsed snapshot.
type Document struct {
	doc    *goquery.Document
	scroll map[*html.Node]float64
}

// Parse reads a snapshot from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &Document{doc: doc, scroll: make(map[*html.Node]float64)}, nil
}

// Load reads a snapshot file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// QuerySelector implements page.Document.
func (d *Document) QuerySelector(_ context.Context, selector string) (page.Element, error) {
	return d.wrap(d.doc.Find(selector).First()), nil
}

func (d *Document) wrap(sel *goquery.Selection) page.Element {
	if sel.Length() == 0 {
		return nil
	}
	return &Element{doc: d, sel: sel}
}

// Element is one node of a snapshot.
type Element struct {
	doc *Document
	sel *goquery.Selection
}

func (e *Element) node() *html.Node {
	return e.sel.Get(0)
}

// QuerySelector implements page.Element.
func (e *Element) QuerySelector(_ context.Context, selector string) (page.Element, error) {
	return e.doc.wrap(e.sel.Find(selector).First()), nil
}

// QuerySelectorAll implements page.Element.
func (e *Element) QuerySelectorAll(_ context.Context, selector string) ([]page.Element, error) {
	found := e.sel.Find(selector)
	out := make([]page.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{doc: e.doc, sel: s})
	})
	return out, nil
}

// Attribute implements page.Element.
func (e *Element) Attribute(_ context.Context, name string) (string, bool, error) {
	value, ok := e.sel.Attr(name)
	return value, ok, nil
}

// TextContent implements page.Element.
func (e *Element) TextContent(context.Context) (string, error) {
	return e.sel.Text(), nil
}

// OuterHTML implements page.Element.
func (e *Element) OuterHTML(context.Context) (string, error) {
	return goquery.OuterHtml(e.sel)
}

// Visible implements page.Element.
func (e *Element) Visible(context.Context) (bool, error) {
	if page.StyleZeroSize(e.sel.AttrOr("style", "")) {
		return false, nil
	}
	for n := e.node(); n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "hidden" || (attr.Key == "style" && page.StyleHides(attr.Val)) {
				return false, nil
			}
		}
	}
	return true, nil
}

// ScrollMetrics implements page.Element.
func (e *Element) ScrollMetrics(context.Context) (page.ScrollMetrics, error) {
	m := page.ScrollMetrics{
		Height:       e.floatAttr(AttrScrollHeight),
		ClientHeight: e.floatAttr(AttrClientHeight),
	}
	if top, ok := e.doc.scroll[e.node()]; ok {
		m.Top = top
	} else {
		m.Top = clamp(e.floatAttr(AttrScrollTop), m)
	}
	return m, nil
}

// SetScrollTop implements page.Element.
func (e *Element) SetScrollTop(ctx context.Context, top float64) error {
	m, err := e.ScrollMetrics(ctx)
	if err != nil {
		return err
	}
	e.doc.scroll[e.node()] = clamp(top, m)
	return nil
}

// SameNode implements page.Element.
func (e *Element) SameNode(other page.Element) bool {
	o, ok := other.(*Element)
	return ok && o != nil && o.node() == e.node()
}

func (e *Element) floatAttr(name string) float64 {
	v, err := strconv.ParseFloat(e.sel.AttrOr(name, ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func clamp(top float64, m page.ScrollMetrics) float64 {
	if top < 0 {
		return 0
	}
	if limit := m.MaxTop(); top > limit {
		return limit
	}
	return top
}
