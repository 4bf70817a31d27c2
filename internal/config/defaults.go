package config

import "time"

const (
	DefaultSocketPath = "../engine/my_socket.sock"
	DefaultTickRate   = 250 * time.Millisecond
	DefaultLanguage   = "en"
)

func applyDefaults(cfg TranscriberConfig) TranscriberConfig {
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePrimary
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if len(cfg.Keybinding.Quit) == 0 {
		cfg.Keybinding.Quit = []string{"q", "esc", "ctrl+c"}
	}
	if len(cfg.Keybinding.Increment) == 0 {
		cfg.Keybinding.Increment = []string{"right"}
	}
	if len(cfg.Keybinding.Decrement) == 0 {
		cfg.Keybinding.Decrement = []string{"left"}
	}
	if len(cfg.Keybinding.Toggle) == 0 {
		cfg.Keybinding.Toggle = []string{" "}
	}
	if len(cfg.Keybinding.Filter) == 0 {
		cfg.Keybinding.Filter = []string{"/"}
	}
	if len(cfg.Keybinding.FilterSubmit) == 0 {
		cfg.Keybinding.FilterSubmit = []string{"enter"}
	}
	if len(cfg.Keybinding.ToggleHelp) == 0 {
		cfg.Keybinding.ToggleHelp = []string{"?"}
	}

	if cfg.Layout.ButtonWidth <= 0 {
		cfg.Layout.ButtonWidth = 30
	}
	if cfg.Layout.ButtonHeight <= 0 {
		cfg.Layout.ButtonHeight = 3
	}
	if cfg.Layout.ButtonLabel == "" {
		cfg.Layout.ButtonLabel = "Transcribe"
	}
	if cfg.Layout.Title == "" {
		cfg.Layout.Title = "Transcriber"
	}
	if cfg.Layout.OutputTitle == "" {
		cfg.Layout.OutputTitle = "Output"
	}

	if cfg.Style.PanelColor == "" {
		cfg.Style.PanelColor = "cyan"
	}
	if cfg.Style.OutputColor == "" {
		cfg.Style.OutputColor = "white"
	}
	if cfg.Style.ButtonColor == "" {
		cfg.Style.ButtonColor = "black"
	}
	if cfg.Style.ButtonBgColor == "" {
		cfg.Style.ButtonBgColor = "white"
	}
	if cfg.Style.RecordingColor == "" {
		cfg.Style.RecordingColor = "red"
	}
	if cfg.Style.StatusColor == "" {
		cfg.Style.StatusColor = "gray"
	}

	return cfg
}

// Default returns the built-in configuration.
func Default() *TranscriberConfig {
	cfg := applyDefaults(TranscriberConfig{})
	return &cfg
}
