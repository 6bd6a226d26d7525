// Package cdppage implements page.Document over a live Chrome tab, driven
// through the DevTools protocol.
//
// It attaches to a tab the user already has open and never navigates,
// reloads or closes it. Element handles are DOM node ids; once the chat
// client re-renders a node away, calls on its handle fail with
// page.ErrDetached.
package cdppage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/tOgg1/threadcopy/internal/logging"
	"github.com/tOgg1/threadcopy/internal/page"
)

// ErrNoTarget is returned when no open tab matches Options.URLMatch.
var ErrNoTarget = errors.New("no matching browser tab")

// Options selects the browser and tab to attach to.
type Options struct {
	// RemoteURL is the DevTools endpoint, e.g. http://127.0.0.1:9222.
	RemoteURL string

	// URLMatch is a substring the tab URL must contain.
	URLMatch string
}

// Page is an attached browser tab.
type Page struct {
	target cdp.Executor
	info   *target.Info
	logger zerolog.Logger

	mu   sync.Mutex
	root cdp.NodeID
}

// Connect attaches to the first page target whose URL contains opts.URLMatch.
// The returned close function drops the DevTools connection and leaves the
// tab and browser running.
func Connect(ctx context.Context, opts Options) (*Page, func(), error) {
	logger := logging.Component("cdppage")

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)

	info, err := findTarget(ctx, allocCtx, opts.URLMatch)
	if err != nil {
		cancelAlloc()
		return nil, nil, err
	}

	// A first-level context attached by target id only disconnects on
	// cancel; a nested one would close the tab.
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithTargetID(info.TargetID))
	closeFn := func() {
		cancelTab()
		cancelAlloc()
	}
	if err := within(ctx, func() error { return chromedp.Run(tabCtx) }); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("attach to tab: %w", err)
	}

	c := chromedp.FromContext(tabCtx)
	if c == nil || c.Target == nil {
		closeFn()
		return nil, nil, fmt.Errorf("attach to tab: %w", chromedp.ErrInvalidContext)
	}

	logger.Debug().
		Str("target_id", string(info.TargetID)).
		Str("url", logging.Redact(info.URL)).
		Msg("attached to tab")

	return &Page{target: c.Target, info: info, logger: logger}, closeFn, nil
}

// findTarget lists the browser's tabs over a short-lived connection.
func findTarget(ctx, allocCtx context.Context, match string) (*target.Info, error) {
	listCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var targets []*target.Info
	err := within(ctx, func() error {
		var err error
		targets, err = chromedp.Targets(listCtx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list browser tabs: %w", err)
	}

	if info := MatchTarget(targets, match); info != nil {
		return info, nil
	}
	return nil, fmt.Errorf("%w: no tab url contains %q", ErrNoTarget, match)
}

// MatchTarget returns the first page target whose URL contains match.
func MatchTarget(targets []*target.Info, match string) *target.Info {
	for _, t := range targets {
		if t == nil || t.Type != "page" {
			continue
		}
		if strings.Contains(t.URL, match) {
			return t
		}
	}
	return nil
}

// within runs fn, which is bound to a chromedp context, but gives up when
// ctx is done.
func within(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// URL returns the tab's URL at attach time.
func (p *Page) URL() string {
	return p.info.URL
}

// Title returns the tab's title at attach time.
func (p *Page) Title() string {
	return p.info.Title
}

func (p *Page) exec(ctx context.Context) context.Context {
	return cdp.WithExecutor(ctx, p.target)
}

func (p *Page) rootNode(ctx context.Context) (cdp.NodeID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.root != 0 {
		return p.root, nil
	}
	root, err := dom.GetDocument().WithDepth(0).Do(p.exec(ctx))
	if err != nil {
		return 0, fmt.Errorf("get document: %w", err)
	}
	p.root = root.NodeID
	return p.root, nil
}

// QuerySelector implements page.Document.
func (p *Page) QuerySelector(ctx context.Context, selector string) (page.Element, error) {
	root, err := p.rootNode(ctx)
	if err != nil {
		return nil, err
	}
	return p.querySelector(ctx, root, selector)
}

func (p *Page) querySelector(ctx context.Context, parent cdp.NodeID, selector string) (page.Element, error) {
	id, err := dom.QuerySelector(parent, selector).Do(p.exec(ctx))
	if err != nil {
		return nil, p.wrapErr("query "+selector, err)
	}
	if id == cdp.EmptyNodeID {
		return nil, nil
	}
	return &Element{page: p, id: id}, nil
}

func (p *Page) querySelectorAll(ctx context.Context, parent cdp.NodeID, selector string) ([]page.Element, error) {
	ids, err := dom.QuerySelectorAll(parent, selector).Do(p.exec(ctx))
	if err != nil {
		return nil, p.wrapErr("query all "+selector, err)
	}
	elements := make([]page.Element, 0, len(ids))
	for _, id := range ids {
		elements = append(elements, &Element{page: p, id: id})
	}
	return elements, nil
}

// callOn runs a JavaScript function with this bound to node and decodes
// its return value into res.
func (p *Page) callOn(ctx context.Context, node cdp.NodeID, fn string, res any) error {
	ctx = p.exec(ctx)
	obj, err := dom.ResolveNode().WithNodeID(node).Do(ctx)
	if err != nil {
		return p.wrapErr("resolve node", err)
	}
	defer func() {
		if err := runtime.ReleaseObject(obj.ObjectID).Do(ctx); err != nil {
			p.logger.Debug().Err(err).Msg("release remote object")
		}
	}()

	value, exception, err := runtime.CallFunctionOn(fn).
		WithObjectID(obj.ObjectID).
		WithReturnByValue(true).
		Do(ctx)
	if err != nil {
		return p.wrapErr("call function", err)
	}
	if exception != nil {
		return fmt.Errorf("call function: %w", exception)
	}
	if res == nil || value == nil || len(value.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal([]byte(value.Value), res); err != nil {
		return fmt.Errorf("decode function result: %w", err)
	}
	return nil
}

// wrapErr maps "node is gone" protocol errors onto page.ErrDetached.
func (p *Page) wrapErr(op string, err error) error {
	var protoErr *cdproto.Error
	if errors.As(err, &protoErr) && strings.Contains(strings.ToLower(protoErr.Message), "node with given id") {
		return fmt.Errorf("%s: %w", op, page.ErrDetached)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Element is a node of the attached tab.
type Element struct {
	page *Page
	id   cdp.NodeID
}

// NodeID returns the DevTools node id.
func (e *Element) NodeID() cdp.NodeID {
	return e.id
}

// QuerySelector implements page.Element.
func (e *Element) QuerySelector(ctx context.Context, selector string) (page.Element, error) {
	return e.page.querySelector(ctx, e.id, selector)
}

// QuerySelectorAll implements page.Element.
func (e *Element) QuerySelectorAll(ctx context.Context, selector string) ([]page.Element, error) {
	return e.page.querySelectorAll(ctx, e.id, selector)
}

// Attribute implements page.Element.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	attrs, err := dom.GetAttributes(e.id).Do(e.page.exec(ctx))
	if err != nil {
		return "", false, e.page.wrapErr("get attributes", err)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true, nil
		}
	}
	return "", false, nil
}

// TextContent implements page.Element.
func (e *Element) TextContent(ctx context.Context) (string, error) {
	var text string
	err := e.page.callOn(ctx, e.id, `function() { return this.textContent || ""; }`, &text)
	return text, err
}

// OuterHTML implements page.Element.
func (e *Element) OuterHTML(ctx context.Context) (string, error) {
	markup, err := dom.GetOuterHTML().WithNodeID(e.id).Do(e.page.exec(ctx))
	if err != nil {
		return "", e.page.wrapErr("get outer html", err)
	}
	return markup, nil
}

const visibleFunc = `function() {
	const style = window.getComputedStyle(this);
	if (style.display === "none" || style.visibility === "hidden") return false;
	const rect = this.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
}`

// Visible implements page.Element.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	var visible bool
	err := e.page.callOn(ctx, e.id, visibleFunc, &visible)
	return visible, err
}

// ScrollMetrics implements page.Element.
func (e *Element) ScrollMetrics(ctx context.Context) (page.ScrollMetrics, error) {
	var m page.ScrollMetrics
	err := e.page.callOn(ctx, e.id, `function() {
		return {scroll_top: this.scrollTop, scroll_height: this.scrollHeight, client_height: this.clientHeight};
	}`, &m)
	return m, err
}

// SetScrollTop implements page.Element.
func (e *Element) SetScrollTop(ctx context.Context, top float64) error {
	fn := fmt.Sprintf(`function() { this.scrollTop = %s; }`, strconv.FormatFloat(top, 'f', -1, 64))
	return e.page.callOn(ctx, e.id, fn, nil)
}

// SameNode implements page.Element.
func (e *Element) SameNode(other page.Element) bool {
	o, ok := other.(*Element)
	return ok && o != nil && o.page == e.page && o.id == e.id
}
