package handler

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/event"
)

// KeyMap defines all keybindings using bubbles/key.
type KeyMap struct {
	Quit         key.Binding
	Increment    key.Binding
	Decrement    key.Binding
	Toggle       key.Binding
	Filter       key.Binding
	FilterSubmit key.Binding
	FilterEscape key.Binding
	FilterDelete key.Binding
	ToggleHelp   key.Binding
}

// matches reports whether k triggers any of the enabled bindings.
func matches(k event.Key, bindings ...key.Binding) bool {
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		for _, name := range b.Keys() {
			if k.Name == name {
				return true
			}
		}
	}
	return false
}

// ShortHelp returns keybindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Filter, k.ToggleHelp, k.Quit}
}

// FullHelp returns all keybindings organized in groups for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increment, k.Decrement},
		{k.Toggle},
		{k.Filter, k.FilterSubmit, k.FilterEscape},
		{k.ToggleHelp, k.Quit},
	}
}

// NewKeyMap creates a KeyMap from the YAML configuration
func NewKeyMap(cfg config.KeybindingConfig) KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(cfg.Quit...),
			key.WithHelp(joinKeys(cfg.Quit), "quit"),
		),
		Increment: key.NewBinding(
			key.WithKeys(cfg.Increment...),
			key.WithHelp(joinKeys(cfg.Increment), "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys(cfg.Decrement...),
			key.WithHelp(joinKeys(cfg.Decrement), "decrement"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(cfg.Toggle...),
			key.WithHelp(joinKeys(cfg.Toggle), "start/stop transcription"),
		),
		Filter: key.NewBinding(
			key.WithKeys(cfg.Filter...),
			key.WithHelp(joinKeys(cfg.Filter), "filter output"),
		),
		FilterSubmit: key.NewBinding(
			key.WithKeys(cfg.FilterSubmit...),
			key.WithHelp(joinKeys(cfg.FilterSubmit), "apply filter"),
		),
		FilterEscape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		FilterDelete: key.NewBinding(
			key.WithKeys("backspace"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys(cfg.ToggleHelp...),
			key.WithHelp(joinKeys(cfg.ToggleHelp), "toggle help"),
		),
	}
}

// joinKeys formats the first two keys of a binding for help display,
// e.g. ["right", "l"] -> "→/l"
func joinKeys(keys []string) string {
	switch len(keys) {
	case 0:
		return ""
	case 1:
		return formatKey(keys[0])
	default:
		return formatKey(keys[0]) + "/" + formatKey(keys[1])
	}
}

func formatKey(k string) string {
	switch k {
	case "left":
		return "←"
	case "right":
		return "→"
	case "enter":
		return "⏎"
	case " ":
		return "space"
	case "ctrl+c":
		return "^C"
	default:
		return k
	}
}
