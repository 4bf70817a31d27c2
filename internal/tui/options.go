package tui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nick/transcriber/internal/config"
)

// ProgramOptions returns the bubbletea options for the transcriber screen.
// Signals are handled by the caller's context, so bubbletea's own handler
// is disabled.
func ProgramOptions(cfg *config.TranscriberConfig) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithInput(os.Stdin),
		tea.WithOutput(os.Stdout),
		tea.WithoutSignalHandler(),
	}
	if cfg.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if disableAltScreen() {
		return opts
	}
	return append(opts, tea.WithAltScreen())
}

func disableAltScreen() bool {
	value, ok := os.LookupEnv("TRANSCRIBER_NO_ALTSCREEN")
	if !ok {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}
