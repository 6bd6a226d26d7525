package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tOgg1/threadcopy/internal/events"
	"github.com/tOgg1/threadcopy/internal/models"
)

// Status texts shown around an extraction.
const (
	StatusScanning   = "Scanning thread..."
	StatusNoThread   = "No thread detected."
	StatusNotOnSlack = "Not on a Slack page."
)

// StatusFound formats the success line for n messages.
func StatusFound(n int) string {
	if n == 1 {
		return "Thread found (1 message)"
	}
	return fmt.Sprintf("Thread found (%d messages)", n)
}

// ResultStatus renders the final status line for result.
func ResultStatus(styleSet Styles, result models.Result) string {
	if n := len(result.Messages()); result.OK() && n > 0 {
		return styleSet.Success.Render(StatusFound(n))
	}
	return styleSet.Warning.Render(StatusNoThread)
}

const tickInterval = 100 * time.Millisecond

type tickMsg struct{}

type eventMsg struct {
	event models.Event
}

type doneMsg struct {
	result models.Result
	err    error
}

// ProgressModel is the bubbletea model showing a running extraction.
type ProgressModel struct {
	styles    Styles
	frame     int
	iteration int
	harvested int
	fallback  bool

	done   bool
	result models.Result
	err    error
}

// NewProgressModel creates a progress model.
func NewProgressModel(styleSet Styles) ProgressModel {
	return ProgressModel{styles: styleSet}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case eventMsg:
		switch msg.event.Type {
		case models.EventTypeHarvestFallback:
			m.fallback = true
		case models.EventTypeHarvestStep:
			m.iteration = msg.event.Iteration
			m.harvested = msg.event.Harvested
		case models.EventTypeHarvestFinished:
			m.harvested = msg.event.Harvested
		}
		return m, nil
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.done {
		if m.err != nil {
			return m.styles.Error.Render("Error: "+m.err.Error()) + "\n"
		}
		return ResultStatus(m.styles, m.result) + "\n"
	}

	label := StatusScanning
	switch {
	case m.fallback:
		label += " (short thread)"
	case m.iteration > 0:
		label += fmt.Sprintf(" step %d, %d messages", m.iteration, m.harvested)
	}
	return RenderSpinner(m.styles, m.frame, label) + "\n"
}

// RunProgress runs work while drawing a spinner on out. Progress comes from
// harvest events published on publisher. It returns work's outcome.
func RunProgress(ctx context.Context, out io.Writer, publisher events.Publisher, styleSet Styles, work func(context.Context) (models.Result, error)) (models.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewProgressModel(styleSet), tea.WithOutput(out), tea.WithInput(nil))

	if publisher != nil {
		id := fmt.Sprintf("progress-%p", program)
		if err := publisher.Subscribe(id, events.Filter{}, func(event *models.Event) {
			program.Send(eventMsg{event: *event})
		}); err == nil {
			defer func() { _ = publisher.Unsubscribe(id) }()
		}
	}

	done := make(chan doneMsg, 1)
	go func() {
		result, err := work(ctx)
		msg := doneMsg{result: result, err: err}
		done <- msg
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return models.Result{}, fmt.Errorf("progress display: %w", err)
	}

	// The program also quits on ctrl+c before work has finished.
	cancel()
	msg := <-done
	return msg.result, msg.err
}
