package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tOgg1/threadcopy/internal/page"
)

// InnerText approximates HTMLElement.innerText for message markup.
//
// Whitespace inside text nodes is kept as-is (message bodies render with
// pre-wrap). <br> yields a newline, block elements are separated by one
// line break and paragraphs by two; breaks at the edges are dropped.
// Hidden subtrees and non-rendered elements contribute nothing.
func InnerText(n *html.Node) string {
	if n == nil {
		return ""
	}
	w := &textWriter{}
	w.walk(n)
	return w.b.String()
}

type textWriter struct {
	b       strings.Builder
	pending int
	started bool
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	if w.started && w.pending > 0 {
		w.b.WriteString(strings.Repeat("\n", w.pending))
	}
	w.pending = 0
	w.b.WriteString(s)
	w.started = true
}

func (w *textWriter) lineBreaks(n int) {
	if n > w.pending {
		w.pending = n
	}
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.write(n.Data)
		return
	case html.ElementNode:
		if !rendered(n) {
			return
		}
		if n.DataAtom == atom.Br {
			w.write("\n")
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	breaks := blockBreaks(n)
	w.lineBreaks(breaks)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.lineBreaks(breaks)
}

func blockBreaks(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.P:
		return 2
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Dd, atom.Details,
		atom.Dialog, atom.Div, atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Header, atom.Hgroup, atom.Hr, atom.Li, atom.Main, atom.Nav, atom.Ol, atom.Pre,
		atom.Section, atom.Summary, atom.Table, atom.Tr, atom.Ul:
		return 1
	}
	return 0
}

func rendered(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Head:
		return false
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return false
		case "style":
			if page.StyleHides(attr.Val) {
				return false
			}
		}
	}
	return true
}
