package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tOgg1/threadcopy/internal/config"
	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/tui"
)

const tableTextWidth = 60

// renderer writes results in one output format.
type renderer struct {
	format string
	// colors is nil when output is not a terminal.
	colors *tui.AuthorColors
	styles tui.Styles
}

func newRenderer(format string, color bool) renderer {
	r := renderer{format: format, styles: tui.PlainStyles()}
	if color {
		r.colors = tui.NewAuthorColors()
		r.styles = tui.DefaultStyles()
	}
	return r
}

// Render returns result in the renderer's format.
func (r renderer) Render(result models.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders result to w.
func (r renderer) Write(w io.Writer, result models.Result) error {
	switch r.format {
	case config.FormatJSON, "":
		return writeJSON(w, result)
	case config.FormatYAML:
		return writeYAML(w, result)
	case config.FormatText:
		return r.writeText(w, result)
	case config.FormatTable:
		return r.writeTable(w, result)
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

func writeJSON(w io.Writer, result models.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, result models.Result) error {
	// Round-trip through JSON so YAML keys match the JSON shape.
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}

func (r renderer) author(name string) string {
	if r.colors == nil {
		return name
	}
	return r.colors.Style(name).Render(name)
}

func (r renderer) writeText(w io.Writer, result models.Result) error {
	if !result.OK() {
		_, err := fmt.Fprintf(w, "error: %s\n", result.Error)
		return err
	}

	for i, msg := range result.Messages() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := r.author(msg.Author)
		if msg.Timestamp != nil {
			header += " " + r.styles.Muted.Render("["+*msg.Timestamp+"]")
		}
		if _, err := fmt.Fprintf(w, "%s:\n%s\n", header, indent(msg.Text, "  ")); err != nil {
			return err
		}
		if len(msg.Reactions) > 0 {
			if _, err := fmt.Fprintf(w, "  %s\n", r.styles.Muted.Render(formatReactions(msg.Reactions))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r renderer) writeTable(w io.Writer, result models.Result) error {
	if !result.OK() {
		_, err := fmt.Fprintf(w, "error: %s\n", result.Error)
		return err
	}

	rows := make([][]string, 0, len(result.Messages()))
	for _, msg := range result.Messages() {
		timestamp := "-"
		if msg.Timestamp != nil {
			timestamp = *msg.Timestamp
		}
		rows = append(rows, []string{
			r.author(msg.Author),
			timestamp,
			truncate(firstLine(msg.Text), tableTextWidth),
			formatReactions(msg.Reactions),
		})
	}
	return writeTable(w, []string{"AUTHOR", "TIME", "TEXT", "REACTIONS"}, rows)
}

func formatReactions(reactions []models.Reaction) string {
	parts := make([]string, 0, len(reactions))
	for _, reaction := range reactions {
		parts = append(parts, reaction.Emoji+" "+strconv.Itoa(reaction.Count))
	}
	return strings.Join(parts, "  ")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func firstLine(text string) string {
	line, rest, found := strings.Cut(text, "\n")
	if found && strings.TrimSpace(rest) != "" {
		return line + " ..."
	}
	return line
}
