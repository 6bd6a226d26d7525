package cdppage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/target"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/threadcopy/internal/harvest"
	"github.com/tOgg1/threadcopy/internal/page"
	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
	"github.com/tOgg1/threadcopy/internal/testutil"
)

func TestMatchTarget(t *testing.T) {
	targets := []*target.Info{
		nil,
		{TargetID: "worker", Type: "service_worker", URL: "https://app.slack.com/sw.js"},
		{TargetID: "mail", Type: "page", URL: "https://mail.example.com/"},
		{TargetID: "slack", Type: "page", URL: "https://app.slack.com/client/T1/C1"},
		{TargetID: "slack2", Type: "page", URL: "https://app.slack.com/client/T2/C2"},
	}

	got := MatchTarget(targets, "slack.com")
	require.NotNil(t, got)
	require.Equal(t, target.ID("slack"), got.TargetID)

	require.Nil(t, MatchTarget(targets, "teams.microsoft.com"))
	require.Nil(t, MatchTarget(nil, "slack.com"))
}

func TestWrapErrDetached(t *testing.T) {
	p := &Page{}

	err := p.wrapErr("get attributes", &cdproto.Error{Code: -32000, Message: "Could not find node with given id"})
	require.ErrorIs(t, err, page.ErrDetached)

	err = p.wrapErr("get attributes", &cdproto.Error{Code: -32000, Message: "Cannot find context with specified id"})
	require.False(t, errors.Is(err, page.ErrDetached))
	require.Contains(t, err.Error(), "get attributes")
}

func TestWithinStopsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	err := within(ctx, func() error {
		<-block
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	require.EqualError(t, within(context.Background(), func() error { return errors.New("boom") }), "boom")
}

func TestSnapshotScriptUsesReplayAttributes(t *testing.T) {
	for _, attr := range []string{htmlpage.AttrScrollTop, htmlpage.AttrScrollHeight, htmlpage.AttrClientHeight} {
		require.Contains(t, snapshotScript, `"`+attr+`"`)
	}
	require.True(t, strings.HasPrefix(snapshotScript, "(() => {"))
}

func TestConnectNoBrowser(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, err := Connect(ctx, Options{RemoteURL: "http://127.0.0.1:1", URLMatch: "slack.com"})
	require.Error(t, err)
}

func TestLiveExtraction(t *testing.T) {
	url := testutil.SkipIfNoBrowser(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p, closeFn, err := Connect(ctx, Options{RemoteURL: url, URLMatch: "slack.com"})
	if errors.Is(err, ErrNoTarget) {
		t.Skip("no slack tab open")
	}
	require.NoError(t, err)
	defer closeFn()

	result, err := harvest.New(harvest.DefaultConfig()).Extract(ctx, p)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	markup, err := p.Snapshot(ctx)
	require.NoError(t, err)
	_, err = htmlpage.Parse(strings.NewReader(markup))
	require.NoError(t, err)
}
