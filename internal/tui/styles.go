// Package tui renders extraction progress and styled terminal output.
package tui

import (
	"hash/fnv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/threadcopy/internal/models"
)

// Styles holds the lipgloss styles used for status and message output.
type Styles struct {
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Bold    lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Accent:  plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Bold:    plain,
	}
}

// AuthorPalette is a curated ANSI 256 palette for stable author colors.
// Red and green are left out so they keep their status meaning.
var AuthorPalette = []string{
	"33", "39", "45", "69", "75", "81", "87", "99",
	"111", "117", "123", "147", "153", "159", "183", "189",
}

// AuthorColors resolves a deterministic style per author and caches it.
type AuthorColors struct {
	palette []string

	mu    sync.RWMutex
	cache map[string]lipgloss.Style
}

// NewAuthorColors returns a mapper over AuthorPalette.
func NewAuthorColors() *AuthorColors {
	paletteCopy := make([]string, len(AuthorPalette))
	copy(paletteCopy, AuthorPalette)

	return &AuthorColors{
		palette: paletteCopy,
		cache:   make(map[string]lipgloss.Style, 16),
	}
}

// Style returns the cached style for author. The unknown author is muted.
func (m *AuthorColors) Style(author string) lipgloss.Style {
	key := normalizeAuthor(author)

	m.mu.RLock()
	if style, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	m.mu.RUnlock()

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ColorCode(key))).Bold(true)
	if key == normalizeAuthor(models.UnknownAuthor) {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	}

	m.mu.Lock()
	m.cache[key] = style
	m.mu.Unlock()

	return style
}

// ColorCode returns the ANSI-256 color code selected for author.
func (m *AuthorColors) ColorCode(author string) string {
	if len(m.palette) == 0 {
		return "15"
	}
	return m.palette[hashToPalette(normalizeAuthor(author), len(m.palette))]
}

func normalizeAuthor(author string) string {
	normalized := strings.ToLower(strings.TrimSpace(author))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

func hashToPalette(key string, paletteLen int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(paletteLen))
}
