// Package harvest extracts a whole thread from a virtualized message list.
//
// The Extractor locates the thread panel, finds the element that actually
// scrolls, and walks it from top to bottom, collecting every message that
// materializes along the way. Messages are deduplicated by their key,
// sorted by it, and compact renderings get their author filled in from the
// message before them.
package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tOgg1/threadcopy/internal/events"
	"github.com/tOgg1/threadcopy/internal/extract"
	"github.com/tOgg1/threadcopy/internal/logging"
	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Config controls the scroll loop.
type Config struct {
	// SettleDelay is the wait after jumping to the top, before the first harvest.
	// Default: 400ms
	SettleDelay time.Duration

	// StepDelay is the wait after each scroll advance.
	// Default: 350ms
	StepDelay time.Duration

	// StepFraction is the share of the visible height scrolled per step.
	// Below 1 so consecutive snapshots overlap.
	// Default: 0.7
	StepFraction float64

	// StuckLimit is how many consecutive steps without scroll progress end the loop.
	// Default: 3
	StuckLimit int

	// MaxIterations bounds the loop; it ends once the count exceeds this.
	// Default: 100
	MaxIterations int
}

// DefaultConfig returns the timings tuned against the Slack web client.
func DefaultConfig() Config {
	return Config{
		SettleDelay:   400 * time.Millisecond,
		StepDelay:     350 * time.Millisecond,
		StepFraction:  0.7,
		StuckLimit:    3,
		MaxIterations: 100,
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Extractor runs thread extractions. One extraction at a time per page.
type Extractor struct {
	config    Config
	sleep     Sleeper
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSleeper replaces the wall-clock delays.
func WithSleeper(sleep Sleeper) Option {
	return func(x *Extractor) {
		x.sleep = sleep
	}
}

// WithPublisher reports progress events to publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(x *Extractor) {
		x.publisher = publisher
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// New creates an Extractor. Negative delays and zero or out-of-range loop
// settings take their defaults; zero delays are kept.
func New(config Config, opts ...Option) *Extractor {
	defaults := DefaultConfig()
	if config.SettleDelay < 0 {
		config.SettleDelay = defaults.SettleDelay
	}
	if config.StepDelay < 0 {
		config.StepDelay = defaults.StepDelay
	}
	if config.StepFraction <= 0 || config.StepFraction > 1 {
		config.StepFraction = defaults.StepFraction
	}
	if config.StuckLimit <= 0 {
		config.StuckLimit = defaults.StuckLimit
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = defaults.MaxIterations
	}

	x := &Extractor{
		config: config,
		sleep:  Sleep,
		logger: logging.Component("harvest"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Config returns the effective configuration.
func (x *Extractor) Config() Config {
	return x.config
}

// run carries the per-call state of one extraction.
type run struct {
	id     string
	logger zerolog.Logger
}

// Extract harvests the open thread of doc.
//
// Every expected outcome, including "no panel" and "no messages", is a
// models.Result. The error return is reserved for failures to talk to the
// page and for ctx being cancelled.
func (x *Extractor) Extract(ctx context.Context, doc page.Document) (models.Result, error) {
	id := uuid.NewString()
	r := &run{id: id, logger: logging.WithRun(x.logger, id)}
	x.publish(ctx, r, models.Event{Type: models.EventTypeHarvestStarted})

	panel, err := FindPanel(ctx, doc)
	if err != nil {
		return models.Result{}, fmt.Errorf("locate thread panel: %w", err)
	}
	if panel == nil {
		r.logger.Info().Msg("no visible thread panel")
		return x.finish(ctx, r, models.Failed(models.ErrorNoDrawer), Stats{}), nil
	}

	wrapper, err := panel.QuerySelector(ctx, extract.SelScrollWrapper)
	if err != nil {
		return models.Result{}, fmt.Errorf("locate scroll container: %w", err)
	}
	if wrapper == nil {
		r.logger.Debug().Msg("no scroll container, harvesting rendered messages once")
		x.publish(ctx, r, models.Event{Type: models.EventTypeHarvestFallback})
		result, err := x.harvestOnce(ctx, panel)
		if err != nil {
			return models.Result{}, err
		}
		return x.finish(ctx, r, result, Stats{Harvested: len(result.Messages())}), nil
	}

	scroller, err := ResolveScroller(ctx, panel, wrapper)
	if err != nil {
		return models.Result{}, fmt.Errorf("resolve scroller: %w", err)
	}

	acc, stats, err := x.scroll(ctx, r, panel, scroller, wrapper)
	if err != nil {
		return models.Result{}, err
	}
	if acc.Len() == 0 {
		return x.finish(ctx, r, models.Failed(models.ErrorNoMessages), stats), nil
	}
	return x.finish(ctx, r, models.Succeeded(Assemble(acc.Entries())), stats), nil
}

func (x *Extractor) finish(ctx context.Context, r *run, result models.Result, stats Stats) models.Result {
	r.logger.Info().
		Int("iterations", stats.Iterations).
		Int("messages", len(result.Messages())).
		Str("stop_reason", string(stats.StopReason)).
		Str("outcome", string(result.Error)).
		Msg("extraction finished")

	x.publish(ctx, r, models.Event{
		Type:       models.EventTypeHarvestFinished,
		Iteration:  stats.Iterations,
		Harvested:  len(result.Messages()),
		StopReason: stats.StopReason,
		Outcome:    result.Error,
	})
	return result
}

func (x *Extractor) publish(ctx context.Context, r *run, event models.Event) {
	if x.publisher == nil {
		return
	}
	event.RunID = r.id
	event.Timestamp = x.now().UTC()
	x.publisher.Publish(ctx, &event)
}
