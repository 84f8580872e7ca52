// Package theme defines the color themes of the typing interface.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Default is the theme used when none is configured.
const Default = "neon"

// Theme is a named palette.
type Theme struct {
	ID      string
	Name    string
	BG      lipgloss.Color
	Main    lipgloss.Color
	Sub     lipgloss.Color
	Primary lipgloss.Color
	Error   lipgloss.Color
}

var themes = []Theme{
	{ID: "neon", Name: "Neon", BG: "#0f172a", Main: "#e2e8f0", Sub: "#64748b", Primary: "#22d3ee", Error: "#f87171"},
	{ID: "matrix", Name: "Matrix", BG: "#000000", Main: "#00ff41", Sub: "#1a401a", Primary: "#008f11", Error: "#da3333"},
	{ID: "light", Name: "Light", BG: "#ffffff", Main: "#374151", Sub: "#9ca3af", Primary: "#2563eb", Error: "#ef4444"},
	{ID: "dracula", Name: "Dracula", BG: "#282a36", Main: "#f8f8f2", Sub: "#6272a4", Primary: "#bd93f9", Error: "#ff5555"},
	{ID: "vaporwave", Name: "Vaporwave", BG: "#2a0c4a", Main: "#fcee0a", Sub: "#b829a6", Primary: "#00f0ff", Error: "#ff2a2a"},
	{ID: "stealth", Name: "Stealth", BG: "#111111", Main: "#777777", Sub: "#333333", Primary: "#e0e0e0", Error: "#ff3333"},
	{ID: "sakura", Name: "Sakura", BG: "#fff5f7", Main: "#5c2c38", Sub: "#d68a9c", Primary: "#ff69b4", Error: "#ff0000"},
	{ID: "forest", Name: "Forest", BG: "#1b2b1b", Main: "#e8f5e9", Sub: "#587a58", Primary: "#66bb6a", Error: "#ef5350"},
	{ID: "sunset", Name: "Sunset", BG: "#2d1b2e", Main: "#fff0f5", Sub: "#6b4c5e", Primary: "#ff9e64", Error: "#ff4d4d"},
	{ID: "coffee", Name: "Coffee", BG: "#2c2520", Main: "#e6dcca", Sub: "#635245", Primary: "#d4a373", Error: "#ff6b6b"},
}

// All returns every theme in display order.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// Names returns theme ids in display order.
func Names() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.ID
	}
	return names
}

// Lookup finds a theme by id, ignoring case.
func Lookup(id string) (Theme, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// Validate returns an error for unknown theme ids.
func Validate(id string) error {
	if _, ok := Lookup(id); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", id, strings.Join(Names(), ", "))
	}
	return nil
}

// Get returns the theme for id, or the default theme.
func Get(id string) Theme {
	if t, ok := Lookup(id); ok {
		return t
	}
	t, _ := Lookup(Default)
	return t
}

// Next returns the theme after id, wrapping around.
func Next(id string) Theme {
	for i, t := range themes {
		if t.ID == id {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Base        lipgloss.Style
	Correct     lipgloss.Style
	Incorrect   lipgloss.Style
	Pending     lipgloss.Style
	CurrentWord lipgloss.Style
	Cursor      lipgloss.Style
	Accent      lipgloss.Style
	Muted       lipgloss.Style
	Big         lipgloss.Style
	Shake       lipgloss.Style
}

// Styles builds the interface styles for t.
func (t Theme) Styles() Styles {
	base := lipgloss.NewStyle().Background(t.BG)
	pending := base.Foreground(t.Sub)
	return Styles{
		Base:        base.Foreground(t.Main),
		Correct:     base.Foreground(t.Main),
		Incorrect:   base.Foreground(t.Error),
		Pending:     pending,
		CurrentWord: base.Foreground(t.Primary),
		Cursor:      base.Foreground(t.Primary).Underline(true),
		Accent:      base.Foreground(t.Primary).Bold(true),
		Muted:       pending,
		Big:         base.Foreground(t.Primary).Bold(true).Padding(0, 1),
		Shake:       lipgloss.NewStyle().MarginLeft(2).MarginBackground(t.BG),
	}
}
