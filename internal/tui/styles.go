package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nick/transcriber/internal/config"
)

// colorToLipgloss translates color names and values to lipgloss-compatible color strings
func colorToLipgloss(color string) string {
	if color == "" || color == "none" {
		return ""
	}

	colorMap := map[string]string{
		"black":   "0",
		"red":     "1",
		"green":   "2",
		"yellow":  "3",
		"blue":    "4",
		"magenta": "5",
		"cyan":    "6",
		"white":   "7",

		"brightblack":   "8",
		"brightred":     "9",
		"brightgreen":   "10",
		"brightyellow":  "11",
		"brightblue":    "12",
		"brightmagenta": "13",
		"brightcyan":    "14",
		"brightwhite":   "15",

		"gray": "8",
		"grey": "8",
	}

	if code, ok := colorMap[strings.ToLower(color)]; ok {
		return code
	}

	// Otherwise, assume it's already a valid color value (hex, ANSI code, etc.)
	return color
}

func fg(style lipgloss.Style, color string) lipgloss.Style {
	if c := colorToLipgloss(color); c != "" {
		return style.Foreground(lipgloss.Color(c))
	}
	return style
}

func bg(style lipgloss.Style, color string) lipgloss.Style {
	if c := colorToLipgloss(color); c != "" {
		return style.Background(lipgloss.Color(c))
	}
	return style
}

type styles struct {
	panel     lipgloss.Style
	output    lipgloss.Style
	title     lipgloss.Style
	button    lipgloss.Style
	recording lipgloss.Style
	idle      lipgloss.Style
	status    lipgloss.Style
	online    lipgloss.Style
	offline   lipgloss.Style
	filter    lipgloss.Style
}

// framed is a rounded box whose border and text share one color.
func framed(color string) lipgloss.Style {
	style := fg(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()), color)
	if c := colorToLipgloss(color); c != "" {
		style = style.BorderForeground(lipgloss.Color(c))
	}
	return style
}

func newStyles(cfg config.StyleConfig) styles {
	return styles{
		panel:     framed(cfg.PanelColor),
		output:    framed(cfg.OutputColor),
		title:     lipgloss.NewStyle().Bold(true),
		button:    bg(framed(cfg.ButtonColor), cfg.ButtonBgColor).Align(lipgloss.Center),
		recording: fg(lipgloss.NewStyle().Bold(true), cfg.RecordingColor),
		idle:      lipgloss.NewStyle().Faint(true),
		status:    fg(lipgloss.NewStyle(), cfg.StatusColor),
		online:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		filter:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}
