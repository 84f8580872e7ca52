package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Restart    key.Binding
	End        key.Binding
	Quit       key.Binding
	DeleteWord key.Binding
	Mode       key.Binding
	Duration   key.Binding
	Words      key.Binding
	Topic      key.Binding
	Sound      key.Binding
	Theme      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Restart:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "restart")),
		End:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		DeleteWord: key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
		Mode:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "mode")),
		Duration:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^d", "time")),
		Words:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "words")),
		Topic:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "topic")),
		Sound:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "sound")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "theme")),
	}
}

// setConfigurable enables the config bar bindings.
func (k *keyMap) setConfigurable(on bool) {
	for _, b := range []*key.Binding{&k.Mode, &k.Duration, &k.Words, &k.Topic, &k.Sound, &k.Theme} {
		b.SetEnabled(on)
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.End, k.Mode, k.Duration, k.Words, k.Topic, k.Sound, k.Theme, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Restart, k.End, k.Quit},
		{k.Mode, k.Duration, k.Words, k.Topic, k.Sound, k.Theme},
	}
}
