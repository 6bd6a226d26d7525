package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tOgg1/threadcopy/internal/page"
)

// Text returns the cleaned body of el. ok is false when el has no body
// element or the body cleans to nothing.
func Text(ctx context.Context, el page.Element) (string, bool, error) {
	body, err := page.First(ctx, el, BodySelectors...)
	if err != nil || body == nil {
		return "", false, err
	}
	return Cleanup(ctx, body)
}

// Cleanup renders the text of body without touching the live document:
// the subtree is serialized and rebuilt as a private copy before editing.
func Cleanup(ctx context.Context, body page.Element) (string, bool, error) {
	outer, err := body.OuterHTML(ctx)
	if err != nil {
		return "", false, err
	}
	text, ok, err := CleanHTML(outer)
	if err != nil {
		return "", false, fmt.Errorf("clean message body: %w", err)
	}
	return text, ok, nil
}

// CleanHTML applies the body cleanup rules to serialized markup:
// edited labels are removed, forced line breaks become a blank line, and
// emoji images become their shortcode (or alt text). The result is the
// trimmed rendered text of what remains.
func CleanHTML(markup string) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", false, err
	}
	root := doc.Find("body").Children().First()
	if root.Length() == 0 {
		return "", false, nil
	}

	root.Find(SelEditedLabel).Remove()
	root.Find(SelLineBreak).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n\n"))
	})
	root.Find(SelEmojiImage).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode(emojiText(s)))
	})

	text := strings.TrimSpace(InnerText(root.Get(0)))
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func emojiText(img *goquery.Selection) string {
	if value := img.AttrOr(AttrStringifyEmoji, ""); value != "" {
		return value
	}
	return img.AttrOr("alt", "")
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}
