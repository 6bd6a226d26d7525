package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tOgg1/threadcopy/internal/config"
	"github.com/tOgg1/threadcopy/internal/events"
	"github.com/tOgg1/threadcopy/internal/harvest"
	"github.com/tOgg1/threadcopy/internal/logging"
	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
	"github.com/tOgg1/threadcopy/internal/page/cdppage"
	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
	"github.com/tOgg1/threadcopy/internal/tui"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// connectBrowser is replaced in tests.
var connectBrowser = func(ctx context.Context, opts cdppage.Options) (livePage, func(), error) {
	return cdppage.Connect(ctx, opts)
}

// livePage is the part of cdppage.Page the extract command uses.
type livePage interface {
	page.Document
	Snapshot(ctx context.Context) (string, error)
}

type extractOptions struct {
	htmlPath    string
	watch       bool
	savePath    string
	noReactions bool
	events      bool
}

func newExtractCmd(a *app) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the open thread",
		Long: `Extract the thread open in the Slack tab of a running Chrome and print its messages.

Chrome must be started with --remote-debugging-port. With --html the thread is
read from a saved page instead; --watch re-reads it whenever the file changes.`,
		Example: `  threadcopy extract
  threadcopy extract --format text --copy
  threadcopy extract --save thread.html
  threadcopy extract --html thread.html --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.htmlPath, "html", "", "read a saved page instead of the live browser")
	flags.BoolVar(&opts.watch, "watch", false, "re-extract whenever the --html file changes")
	flags.StringVar(&opts.savePath, "save", "", "also save the live page to this file for later --html runs")
	flags.BoolVar(&opts.noReactions, "no-reactions", false, "omit reactions from the output")
	flags.BoolVar(&opts.events, "events", false, "stream progress events as JSON lines to stderr")
	flags.String("format", "", "output format (json, text, yaml, table)")
	flags.Bool("copy", false, "copy the output to the clipboard")
	flags.String("remote-url", "", "Chrome DevTools endpoint")
	flags.String("url-match", "", "substring identifying the Slack tab url")
	flags.Duration("timeout", 0, "give up after this long")

	v := a.loader.Viper()
	_ = v.BindPFlag("output.format", flags.Lookup("format"))
	_ = v.BindPFlag("output.copy", flags.Lookup("copy"))
	_ = v.BindPFlag("browser.remote_url", flags.Lookup("remote-url"))
	_ = v.BindPFlag("browser.url_match", flags.Lookup("url-match"))
	_ = v.BindPFlag("browser.timeout", flags.Lookup("timeout"))

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, opts extractOptions) error {
	cfg := a.cfg
	if opts.noReactions {
		cfg.Output.IncludeReactions = false
	}

	if opts.watch && opts.htmlPath == "" {
		return Exitf(ExitCodeFailure, "--watch requires --html")
	}
	if opts.savePath != "" && opts.htmlPath != "" {
		return Exitf(ExitCodeFailure, "--save only applies to the live browser")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Ctrl-C cancels the run so the browser connection is released.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.htmlPath != "" {
		if opts.watch {
			return a.watchSnapshot(ctx, cmd, cfg, opts)
		}
		doc, err := htmlpage.Load(opts.htmlPath)
		if err != nil {
			return Exitf(ExitCodeFailure, "%v", err)
		}
		return a.extractAndPrint(ctx, cmd, cfg, opts, doc)
	}

	return a.extractLive(ctx, cmd, cfg, opts)
}

func (a *app) extractLive(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts extractOptions) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Browser.Timeout)
	defer cancel()

	logger := logging.Component("cli")
	logger.Debug().
		Str("remote_url", logging.Redact(cfg.Browser.RemoteURL)).
		Str("url_match", cfg.Browser.URLMatch).
		Msg("connecting to browser")

	tab, closeTab, err := connectBrowser(ctx, cdppage.Options{
		RemoteURL: cfg.Browser.RemoteURL,
		URLMatch:  cfg.Browser.URLMatch,
	})
	if errors.Is(err, cdppage.ErrNoTarget) {
		a.status(cmd).warn(tui.StatusNotOnSlack)
		return &ExitError{Code: ExitCodeNoThread, Err: err, Printed: true}
	}
	if errors.Is(err, context.Canceled) {
		return Exitf(ExitCodeFailure, "interrupted while connecting to browser")
	}
	if err != nil {
		return Exitf(ExitCodeFailure, "connect to browser at %s: %v", logging.Redact(cfg.Browser.RemoteURL), err)
	}
	defer closeTab()

	if opts.savePath != "" {
		markup, err := tab.Snapshot(ctx)
		if err != nil {
			return Exitf(ExitCodeFailure, "save page: %v", err)
		}
		if err := os.WriteFile(opts.savePath, []byte(markup), 0o644); err != nil {
			return Exitf(ExitCodeFailure, "save page: %v", err)
		}
		logger.Info().Str("path", opts.savePath).Msg("saved page")
	}

	return a.extractAndPrint(ctx, cmd, cfg, opts, tab)
}

// extractAndPrint runs one extraction, prints the result and maps its
// outcome onto an exit code.
func (a *app) extractAndPrint(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts extractOptions, doc page.Document) error {
	result, err := a.extract(ctx, cmd, cfg, opts, doc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Exitf(ExitCodeFailure, "extraction timed out after %s", cfg.Browser.Timeout)
		}
		if errors.Is(err, context.Canceled) {
			return Exitf(ExitCodeFailure, "extraction interrupted")
		}
		return Exitf(ExitCodeFailure, "extract thread: %v", err)
	}

	if err := a.printResult(cmd, cfg, result); err != nil {
		return err
	}

	if outcome := result.Err(); outcome != nil {
		return &ExitError{Code: exitCodeFor(outcome), Err: outcome, Printed: true}
	}
	return nil
}

// extract runs the harvester over doc, showing progress on stderr.
func (a *app) extract(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts extractOptions, doc page.Document) (models.Result, error) {
	publisher := events.NewInMemoryPublisher()
	defer publisher.Close()

	if opts.events {
		streamer := NewEventStreamer(cmd.ErrOrStderr(), events.Filter{})
		detach, err := streamer.Attach(publisher)
		if err != nil {
			return models.Result{}, err
		}
		defer detach()
	}

	extractor := harvest.New(cfg.HarvestSettings(), harvest.WithPublisher(publisher))
	stderr := cmd.ErrOrStderr()

	// The spinner and the JSON event stream would interleave on stderr.
	if a.isTTY(stderr) && !opts.events {
		return tui.RunProgress(ctx, stderr, publisher, tui.DefaultStyles(), func(ctx context.Context) (models.Result, error) {
			return extractor.Extract(ctx, doc)
		})
	}

	st := a.status(cmd)
	st.info(tui.StatusScanning)
	result, err := extractor.Extract(ctx, doc)
	if err != nil {
		return models.Result{}, err
	}
	st.line(tui.ResultStatus(st.styles, result))
	return result, nil
}

func (a *app) printResult(cmd *cobra.Command, cfg *config.Config, result models.Result) error {
	if err := result.Validate(); err != nil {
		return &ExitError{Code: ExitCodeFailure, Err: err}
	}
	if !cfg.Output.IncludeReactions {
		result = result.WithoutReactions()
	}

	out := cmd.OutOrStdout()
	r := newRenderer(cfg.Output.Format, a.isTTY(out) && cfg.Output.Format != config.FormatJSON && cfg.Output.Format != config.FormatYAML)
	rendered, err := r.Render(result)
	if err != nil {
		return Exitf(ExitCodeFailure, "%v", err)
	}
	if _, err := out.Write(rendered); err != nil {
		return Exitf(ExitCodeFailure, "write output: %v", err)
	}

	if cfg.Output.Copy && result.OK() {
		// The clipboard always gets uncolored output.
		plain, err := newRenderer(cfg.Output.Format, false).Render(result)
		if err != nil {
			return Exitf(ExitCodeFailure, "%v", err)
		}
		if err := writeClipboard(string(plain)); err != nil {
			a.status(cmd).fail("Failed to copy.")
			return Exitf(ExitCodeFailure, "copy to clipboard: %v", err)
		}
		a.status(cmd).success("Copied to clipboard!")
	}
	return nil
}

// status writes human-facing progress lines to stderr.
type status struct {
	out    io.Writer
	styles tui.Styles
}

func (a *app) status(cmd *cobra.Command) status {
	out := cmd.ErrOrStderr()
	if a.isTTY(out) {
		return status{out: out, styles: tui.DefaultStyles()}
	}
	return status{out: out, styles: tui.PlainStyles()}
}

func (s status) line(text string) {
	fmt.Fprintln(s.out, text)
}

func (s status) info(text string) {
	s.line(s.styles.Muted.Render(text))
}

func (s status) success(text string) {
	s.line(s.styles.Success.Render(text))
}

func (s status) warn(text string) {
	s.line(s.styles.Warning.Render(text))
}

func (s status) fail(text string) {
	s.line(s.styles.Error.Render(text))
}
