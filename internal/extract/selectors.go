package extract

// Slack web client DOM selectors.
// Kept together because the client's markup changes without notice.

// Thread panel candidates.
const (
	SelThreadsFlexpane = `[data-qa="threads_flexpane"]`
	SelThreadView      = `[data-qa="thread_view"]`
)

// Scroll wrapper and the candidates for the element that actually scrolls.
const (
	SelScrollWrapper       = `.c-scrollbar__hider`
	SelVirtualList         = `.c-virtual_list`
	SelVirtualListScroller = `.c-virtual_list__scroll_container`
	SelSlackKitScrollbar   = `[data-qa="slack_kit_scrollbar"]`
)

// Message container and its fields.
const (
	SelMessageContainer = `[data-qa="message_container"]`
	AttrMessageKey      = "data-msg-ts"

	SelSenderName   = `[data-qa="message_sender_name"]`
	SelSenderButton = `button[data-message-sender]`

	SelTimestampLink = `a.c-timestamp[data-ts]`
	SelAnyTimestamp  = `[data-ts]`
	AttrTimestamp    = "data-ts"

	SelMessageText     = `[data-qa="message-text"]`
	SelRichTextSection = `.p-rich_text_section`
	SelEditedLabel     = `.c-message__edited_label`
	SelLineBreak       = `.c-mrkdwn__br`
	SelEmojiImage      = `img[data-stringify-emoji]`
	AttrStringifyEmoji = "data-stringify-emoji"

	SelReactionButton = `[data-qa="reactji"]`
	SelReactionCount  = `.c-reaction__count`
)

// PanelSelectors lists thread panel candidates in priority order.
var PanelSelectors = []string{SelThreadsFlexpane, SelThreadView}

// AuthorSelectors lists author label candidates in priority order.
var AuthorSelectors = []string{SelSenderName, SelSenderButton}

// BodySelectors lists message body candidates in priority order.
var BodySelectors = []string{SelMessageText, SelRichTextSection}
