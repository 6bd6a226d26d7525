package cdppage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"

	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
)

// snapshotScript serializes a copy of the document. Layout the copy cannot
// carry is written onto it as attributes htmlpage understands: scroll state
// on overflowing elements, the hidden attribute on elements styled away and
// a zero width on elements without a box. The live document is left untouched.
var snapshotScript = fmt.Sprintf(`(() => {
	const copy = document.documentElement.cloneNode(true);
	const live = document.documentElement.querySelectorAll("*");
	const cloned = copy.querySelectorAll("*");
	for (let i = 0; i < live.length && i < cloned.length; i++) {
		const el = live[i];
		const out = cloned[i];
		if (el.scrollHeight > el.clientHeight || el.scrollTop > 0) {
			out.setAttribute(%q, String(el.scrollTop));
			out.setAttribute(%q, String(el.scrollHeight));
			out.setAttribute(%q, String(el.clientHeight));
		}
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden") {
			out.setAttribute("hidden", "");
			continue;
		}
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) {
			out.setAttribute("style", (out.getAttribute("style") || "") + ";width:0px");
		}
	}
	copy.querySelectorAll("script, style, link[rel=stylesheet]").forEach((el) => el.remove());
	return "<!DOCTYPE html>" + copy.outerHTML;
})()`, htmlpage.AttrScrollTop, htmlpage.AttrScrollHeight, htmlpage.AttrClientHeight)

// Snapshot serializes the tab into markup htmlpage can replay.
func (p *Page) Snapshot(ctx context.Context) (string, error) {
	value, exception, err := runtime.Evaluate(snapshotScript).
		WithReturnByValue(true).
		Do(p.exec(ctx))
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if exception != nil {
		return "", fmt.Errorf("snapshot: %w", exception)
	}

	var markup string
	if err := json.Unmarshal([]byte(value.Value), &markup); err != nil {
		return "", fmt.Errorf("decode snapshot: %w", err)
	}
	p.logger.Debug().Int("bytes", len(markup)).Msg("captured snapshot")
	return markup, nil
}
