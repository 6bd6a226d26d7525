package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
)

func messageElement(t *testing.T, inner string) page.Element {
	t.Helper()
	doc, err := htmlpage.Parse(strings.NewReader(`<html><body>` + inner + `</body></html>`))
	require.NoError(t, err)
	el, err := doc.QuerySelector(context.Background(), SelMessageContainer)
	require.NoError(t, err)
	require.NotNil(t, el)
	return el
}

func TestAuthor(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "sender name",
			html: `<div data-qa="message_container"><span data-qa="message_sender_name"> Alice </span></div>`,
			want: "Alice",
		},
		{
			name: "falls back to sender button",
			html: `<div data-qa="message_container"><span data-qa="message_sender_name">  </span><button data-message-sender="U1">Bob</button></div>`,
			want: "Bob",
		},
		{
			name: "compact message has no label",
			html: `<div data-qa="message_container"><div data-qa="message-text">hi</div></div>`,
			want: models.UnknownAuthor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Author(ctx, messageElement(t, tt.html))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTimestamp(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "timestamp link",
			html: `<div data-qa="message_container" data-msg-ts="1.0"><a class="c-timestamp" data-ts="1700000000.123456">3:13</a></div>`,
			want: "2023-11-14T22:13:20.123Z",
		},
		{
			name: "any data-ts element",
			html: `<div data-qa="message_container" data-msg-ts="1.0"><span data-ts="1700000001">x</span></div>`,
			want: "2023-11-14T22:13:21.000Z",
		},
		{
			name: "unparsable link falls through to container key",
			html: `<div data-qa="message_container" data-msg-ts="1700000002.000100"><a class="c-timestamp" data-ts="soon">x</a></div>`,
			want: "2023-11-14T22:13:22.000Z",
		},
		{
			name: "nothing parses",
			html: `<div data-qa="message_container" data-msg-ts="abc"><span data-ts="">x</span></div>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Timestamp(ctx, messageElement(t, tt.html))
			require.NoError(t, err)
			if tt.want == "" {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tt.want, *got)
		})
	}
}

func TestEpochSecondsToISO(t *testing.T) {
	iso, ok := EpochSecondsToISO(" 0.0015")
	require.True(t, ok)
	require.Equal(t, "1970-01-01T00:00:00.001Z", iso)

	_, ok = EpochSecondsToISO("1e20")
	require.False(t, ok)

	_, ok = EpochSecondsToISO("")
	require.False(t, ok)
}

func TestText(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{
			name: "message text with edited label",
			html: `<div data-qa="message_container"><div data-qa="message-text"><div class="p-rich_text_section">ship it <span class="c-message__edited_label">(edited)</span></div></div></div>`,
			want: "ship it", wantOK: true,
		},
		{
			name: "line break marker becomes paragraph gap",
			html: `<div data-qa="message_container"><div class="p-rich_text_section">one<span class="c-mrkdwn__br"></span>two</div></div>`,
			want: "one\n\ntwo", wantOK: true,
		},
		{
			name: "emoji image becomes shortcode or alt",
			html: `<div data-qa="message_container"><div data-qa="message-text">nice <img data-stringify-emoji=":tada:" alt="🎉"> <img data-stringify-emoji="" alt="🔥"></div></div>`,
			want: "nice :tada: 🔥", wantOK: true,
		},
		{
			name: "no body element",
			html: `<div data-qa="message_container"><div class="c-file">report.pdf</div></div>`,
		},
		{
			name: "body cleans to nothing",
			html: `<div data-qa="message_container"><div data-qa="message-text"> <span class="c-message__edited_label">(edited)</span> </div></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Text(ctx, messageElement(t, tt.html))
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCleanupLeavesLiveDocumentAlone(t *testing.T) {
	ctx := context.Background()
	el := messageElement(t, `<div data-qa="message_container"><div data-qa="message-text">a<span class="c-message__edited_label">(edited)</span><img data-stringify-emoji=":x:"></div></div>`)

	before, err := el.OuterHTML(ctx)
	require.NoError(t, err)
	_, _, err = Text(ctx, el)
	require.NoError(t, err)
	after, err := el.OuterHTML(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCleanHTMLIdempotent(t *testing.T) {
	inputs := []string{
		`<div>one<span class="c-mrkdwn__br"></span>two <img data-stringify-emoji=":wave:"></div>`,
		`<div><p>first</p><p>second</p><ul><li>a</li><li>b</li></ul>tail<br>end</div>`,
		`<div>  spaced   out  <span class="c-message__edited_label">(edited)</span></div>`,
	}
	for _, input := range inputs {
		once, ok, err := CleanHTML(input)
		require.NoError(t, err)
		require.True(t, ok)

		var b strings.Builder
		b.WriteString(`<div style="white-space: pre-wrap">`)
		b.WriteString(htmlEscape(once))
		b.WriteString(`</div>`)
		twice, ok, err := CleanHTML(b.String())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, once, twice)
	}
}

func TestInnerTextBlocks(t *testing.T) {
	got, ok, err := CleanHTML(`<div><p>first</p><p>second</p><ul><li>a</li><li>b</li></ul>tail<br>end<span style="display:none">secret</span></div>`)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first\n\nsecond\n\na\nb\ntail\nend", got)
}

func TestReactions(t *testing.T) {
	ctx := context.Background()
	el := messageElement(t, `<div data-qa="message_container">
		<button data-qa="reactji"><img data-stringify-emoji="🎉"><span class="c-reaction__count"> 3 </span></button>
		<button data-qa="reactji"><img data-stringify-emoji=":zero:"><span class="c-reaction__count">0</span></button>
		<button data-qa="reactji"><img data-stringify-emoji=":what:"><span class="c-reaction__count">lots</span></button>
		<button data-qa="reactji"><img data-stringify-emoji="" alt=""><span class="c-reaction__count">5</span></button>
		<button data-qa="reactji"><img data-stringify-emoji="" alt=":alt:"><span class="c-reaction__count">2</span></button>
		<button data-qa="reactji"><span class="c-reaction__count">7</span></button>
		<button data-qa="reactji"><img data-stringify-emoji="🎉"><span class="c-reaction__count">1</span></button>
	</div>`)

	got, err := Reactions(ctx, el)
	require.NoError(t, err)
	require.Equal(t, []models.Reaction{
		{Emoji: "🎉", Count: 3},
		{Emoji: ":alt:", Count: 2},
		{Emoji: "🎉", Count: 1},
	}, got)
}

func TestMessage(t *testing.T) {
	ctx := context.Background()

	el := messageElement(t, `<div data-qa="message_container" data-msg-ts="1700000000.000100">
		<span data-qa="message_sender_name">alice</span>
		<div data-qa="message-text">hello</div>
		<button data-qa="reactji"><img data-stringify-emoji=":+1:"><span class="c-reaction__count">2</span></button>
	</div>`)
	msg, ok, err := Message(ctx, el)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", msg.Author)
	require.Equal(t, "hello", msg.Text)
	require.NotNil(t, msg.Timestamp)
	require.Equal(t, []models.Reaction{{Emoji: ":+1:", Count: 2}}, msg.Reactions)
	require.NoError(t, msg.Validate())

	key, ok, err := Key(ctx, el)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1700000000.000100", key)

	noReactions := messageElement(t, `<div data-qa="message_container"><div data-qa="message-text">hey</div></div>`)
	msg, ok, err = Message(ctx, noReactions)
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, msg.Reactions)
	require.Equal(t, models.UnknownAuthor, msg.Author)

	_, ok, err = Key(ctx, noReactions)
	require.NoError(t, err)
	require.False(t, ok)

	attachmentOnly := messageElement(t, `<div data-qa="message_container"><span data-qa="message_sender_name">bob</span>
		<button data-qa="reactji"><img data-stringify-emoji=":eyes:"><span class="c-reaction__count">1</span></button></div>`)
	msg, ok, err = Message(ctx, attachmentOnly)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "bob", msg.Author)
	require.Empty(t, msg.Text)
}

func TestParseNumbers(t *testing.T) {
	f, ok := ParseFloat("  12.5abc")
	require.True(t, ok)
	require.Equal(t, 12.5, f)

	_, ok = ParseFloat("NaN")
	require.False(t, ok)

	n, ok := ParseInt("42 people")
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, ok = ParseInt("x1")
	require.False(t, ok)
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
