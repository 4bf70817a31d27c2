package config

import "time"

// Mode selects what happens when the engine socket cannot be reached at startup.
type Mode string

const (
	// ModePrimary treats a failed connection as fatal.
	ModePrimary Mode = "primary"
	// ModeOffline starts without a transport and reports commands as unavailable.
	ModeOffline Mode = "offline"
)

type KeybindingConfig struct {
	Quit         []string `yaml:"quit" env:"QUIT"`
	Increment    []string `yaml:"increment" env:"INCREMENT"`
	Decrement    []string `yaml:"decrement" env:"DECREMENT"`
	Toggle       []string `yaml:"toggle" env:"TOGGLE"`
	Filter       []string `yaml:"filter" env:"FILTER"`
	FilterSubmit []string `yaml:"submit_filter" env:"SUBMIT_FILTER"`
	ToggleHelp   []string `yaml:"toggle_help" env:"TOGGLE_HELP"`
}

type LayoutConfig struct {
	ButtonWidth  int    `yaml:"button_width" env:"BUTTON_WIDTH"`
	ButtonHeight int    `yaml:"button_height" env:"BUTTON_HEIGHT"`
	ButtonLabel  string `yaml:"button_label" env:"BUTTON_LABEL"`
	Title        string `yaml:"title" env:"TITLE"`
	OutputTitle  string `yaml:"output_title" env:"OUTPUT_TITLE"`
}

type StyleConfig struct {
	PanelColor     string `yaml:"panel_color" env:"PANEL_COLOR"`
	OutputColor    string `yaml:"output_color" env:"OUTPUT_COLOR"`
	ButtonColor    string `yaml:"button_color" env:"BUTTON_COLOR"`
	ButtonBgColor  string `yaml:"button_bg_color" env:"BUTTON_BG_COLOR"`
	RecordingColor string `yaml:"recording_color" env:"RECORDING_COLOR"`
	StatusColor    string `yaml:"status_color" env:"STATUS_COLOR"`
}

type TranscriberConfig struct {
	SocketPath  string           `yaml:"socket_path" env:"SOCKET"`
	TickRate    time.Duration    `yaml:"tick_rate" env:"TICK_RATE"`
	Language    string           `yaml:"language" env:"LANGUAGE"`
	Mode        Mode             `yaml:"mode" env:"MODE"`
	LogFile     string           `yaml:"log_file" env:"LOG_FILE"`
	LogLevel    string           `yaml:"log_level" env:"LOG_LEVEL"`
	EnableMouse *bool            `yaml:"enable_mouse" env:"ENABLE_MOUSE"`
	Keybinding  KeybindingConfig `yaml:"keybinding" envPrefix:"KEY_"`
	Layout      LayoutConfig     `yaml:"layout" envPrefix:"LAYOUT_"`
	Style       StyleConfig      `yaml:"style" envPrefix:"STYLE_"`

	// FilePath is the config file the values were read from, empty when
	// only defaults and environment were used.
	FilePath string `yaml:"-" env:"-"`
}

// MouseEnabled reports whether mouse reporting should be requested from the terminal.
func (cfg *TranscriberConfig) MouseEnabled() bool {
	return cfg.EnableMouse == nil || *cfg.EnableMouse
}
