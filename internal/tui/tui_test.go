package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/threadcopy/internal/events"
	"github.com/tOgg1/threadcopy/internal/models"
)

func TestSpinner(t *testing.T) {
	// Test that spinner cycles through frames
	frames := make(map[string]bool)
	for i := 0; i < 20; i++ {
		frame := Spinner(i)
		if frame == "" {
			t.Errorf("Spinner(%d) returned empty string", i)
		}
		frames[frame] = true
	}

	if len(frames) != len(SpinnerFrames) {
		t.Errorf("Spinner should cycle through every frame, got %d unique", len(frames))
	}
	if Spinner(-5) == "" {
		t.Error("Spinner(-5) returned empty string")
	}
}

func TestRenderSpinner(t *testing.T) {
	styleSet := PlainStyles()
	require.Equal(t, SpinnerFrames[0], RenderSpinner(styleSet, 0, ""))
	require.Equal(t, SpinnerFrames[1]+" Loading...", RenderSpinner(styleSet, 1, "Loading..."))
}

func TestStatusFound(t *testing.T) {
	require.Equal(t, "Thread found (1 message)", StatusFound(1))
	require.Equal(t, "Thread found (3 messages)", StatusFound(3))

	styleSet := PlainStyles()
	ok := models.Succeeded([]models.Message{{Author: "a", Text: "b"}})
	require.Equal(t, "Thread found (1 message)", ResultStatus(styleSet, ok))
	require.Equal(t, StatusNoThread, ResultStatus(styleSet, models.Failed(models.ErrorNoDrawer)))
	require.Equal(t, StatusNoThread, ResultStatus(styleSet, models.Succeeded(nil)))
}

func TestAuthorColorsStable(t *testing.T) {
	colors := NewAuthorColors()
	require.Equal(t, colors.ColorCode("Alice"), colors.ColorCode(" alice "))
	require.Contains(t, AuthorPalette, colors.ColorCode("bob"))
	require.Equal(t, colors.Style("carol").Render("x"), colors.Style("Carol").Render("x"))
	require.Equal(t, colors.ColorCode(""), colors.ColorCode("unknown"))
}

func TestProgressModelUpdates(t *testing.T) {
	var m tea.Model = NewProgressModel(PlainStyles())
	require.NotNil(t, m.Init())
	require.True(t, strings.HasSuffix(m.View(), StatusScanning+"\n"))

	m, _ = m.Update(eventMsg{event: models.Event{Type: models.EventTypeHarvestStep, Iteration: 4, Harvested: 12}})
	require.Contains(t, m.View(), "step 4, 12 messages")

	m, cmd := m.Update(tickMsg{})
	require.NotNil(t, cmd)
	require.True(t, strings.HasPrefix(m.View(), SpinnerFrames[1]))

	m, cmd = m.Update(doneMsg{result: models.Succeeded([]models.Message{{Author: "a", Text: "b"}, {Author: "a", Text: "c"}})})
	require.NotNil(t, cmd)
	require.Equal(t, "Thread found (2 messages)\n", m.View())

	_, cmd = m.Update(tickMsg{})
	require.Nil(t, cmd)

	fallback, _ := NewProgressModel(PlainStyles()).Update(eventMsg{event: models.Event{Type: models.EventTypeHarvestFallback}})
	require.Contains(t, fallback.View(), "short thread")

	failed, _ := NewProgressModel(PlainStyles()).Update(doneMsg{err: errors.New("boom")})
	require.Equal(t, "Error: boom\n", failed.View())
}

func TestRunProgress(t *testing.T) {
	publisher := events.NewInMemoryPublisher()
	var out bytes.Buffer

	want := models.Succeeded([]models.Message{{Author: "a", Text: "b"}})
	got, err := RunProgress(context.Background(), &out, publisher, PlainStyles(), func(ctx context.Context) (models.Result, error) {
		publisher.Publish(ctx, &models.Event{Type: models.EventTypeHarvestStep, Iteration: 1, Harvested: 1})
		return want, nil
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Zero(t, publisher.SubscriberCount())
	require.Contains(t, out.String(), "Thread found (1 message)")
}
