package harvest

import (
	"context"
	"fmt"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// State is a phase of the scroll loop.
type State int

const (
	StateInit State = iota
	StateScrolling
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateScrolling:
		return "scrolling"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats summarizes one scroll run.
type Stats struct {
	Iterations int
	Harvested  int
	StopReason models.StopReason
}

// driver walks one scroller from top to bottom.
type driver struct {
	x        *Extractor
	run      *run
	panel    page.Element
	scroller page.Element
	wrapper  page.Element
	acc      *Accumulator

	state      State
	iterations int
	stuck      int
	stop       models.StopReason
}

// scroll drives the scroller through its full range, harvesting after each
// settle. Both "reached the end" and "not responding" end the loop normally.
func (x *Extractor) scroll(ctx context.Context, r *run, panel, scroller, wrapper page.Element) (*Accumulator, Stats, error) {
	d := &driver{
		x:        x,
		run:      r,
		panel:    panel,
		scroller: scroller,
		wrapper:  wrapper,
		acc:      NewAccumulator(),
		state:    StateInit,
	}
	for d.state != StateDone {
		if err := d.tick(ctx); err != nil {
			return nil, d.stats(), err
		}
	}
	return d.acc, d.stats(), nil
}

func (d *driver) stats() Stats {
	return Stats{
		Iterations: d.iterations,
		Harvested:  d.acc.Len(),
		StopReason: d.stop,
	}
}

func (d *driver) tick(ctx context.Context) error {
	switch d.state {
	case StateInit:
		return d.reset(ctx)
	case StateScrolling:
		return d.step(ctx)
	default:
		return nil
	}
}

func (d *driver) reset(ctx context.Context) error {
	if err := d.scroller.SetScrollTop(ctx, 0); err != nil {
		return fmt.Errorf("reset scroll position: %w", err)
	}
	if !d.scroller.SameNode(d.wrapper) {
		if err := d.wrapper.SetScrollTop(ctx, 0); err != nil {
			return fmt.Errorf("reset wrapper scroll position: %w", err)
		}
	}
	if err := d.x.sleep(ctx, d.x.config.SettleDelay); err != nil {
		return err
	}
	d.run.logger.Debug().Msg("scroll position reset")
	d.state = StateScrolling
	return nil
}

func (d *driver) step(ctx context.Context) error {
	d.iterations++

	if err := harvestInto(ctx, d.panel, d.acc); err != nil {
		return err
	}

	before, after, err := d.advance(ctx)
	if err != nil {
		return err
	}
	if after == before {
		d.stuck++
	} else {
		d.stuck = 0
	}

	d.run.logger.Debug().
		Int("iteration", d.iterations).
		Int("harvested", d.acc.Len()).
		Float64("scroll_top", after).
		Int("stuck", d.stuck).
		Msg("scroll step")
	d.x.publish(ctx, d.run, models.Event{
		Type:      models.EventTypeHarvestStep,
		Iteration: d.iterations,
		Harvested: d.acc.Len(),
		ScrollTop: after,
		Stuck:     d.stuck,
	})

	switch {
	case d.stuck >= d.x.config.StuckLimit:
		d.stop = models.StopReasonStuck
		d.state = StateDone
	case d.iterations > d.x.config.MaxIterations:
		d.stop = models.StopReasonIterationCap
		d.state = StateDone
	}
	return nil
}

// advance scrolls by a fraction of the visible height so consecutive
// snapshots overlap, then mirrors the offset onto the wrapper.
func (d *driver) advance(ctx context.Context) (before, after float64, err error) {
	metrics, err := d.scroller.ScrollMetrics(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read scroll position: %w", err)
	}
	before = metrics.Top
	target := before + metrics.ClientHeight*d.x.config.StepFraction
	if err := d.scroller.SetScrollTop(ctx, target); err != nil {
		return 0, 0, fmt.Errorf("advance scroll position: %w", err)
	}
	if err := d.x.sleep(ctx, d.x.config.StepDelay); err != nil {
		return 0, 0, err
	}

	metrics, err = d.scroller.ScrollMetrics(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read scroll position: %w", err)
	}
	if !d.scroller.SameNode(d.wrapper) {
		if err := d.wrapper.SetScrollTop(ctx, metrics.Top); err != nil {
			return 0, 0, fmt.Errorf("mirror scroll position: %w", err)
		}
		metrics, err = d.scroller.ScrollMetrics(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("read scroll position: %w", err)
		}
	}
	return before, metrics.Top, nil
}
