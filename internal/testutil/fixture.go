package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Msg describes one message container of a fixture thread.
type Msg struct {
	Key    string
	Author string
	Text   string
}

// ThreadHTML renders a saved thread page with one panel holding msgs.
// With scroll set, the messages sit inside a scroll wrapper annotated as
// not overflowing.
func ThreadHTML(scroll bool, msgs ...Msg) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><div data-qa="threads_flexpane">`)
	if scroll {
		b.WriteString(`<div class="c-scrollbar__hider" data-scroll-height="400" data-client-height="400">`)
	}
	for _, m := range msgs {
		b.WriteString(`<div data-qa="message_container"`)
		if m.Key != "" {
			fmt.Fprintf(&b, ` data-msg-ts="%s"`, m.Key)
		}
		b.WriteString(`>`)
		if m.Author != "" {
			fmt.Fprintf(&b, `<span data-qa="message_sender_name">%s</span>`, m.Author)
		}
		if m.Text != "" {
			fmt.Fprintf(&b, `<div data-qa="message-text">%s</div>`, m.Text)
		}
		b.WriteString(`</div>`)
	}
	if scroll {
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
