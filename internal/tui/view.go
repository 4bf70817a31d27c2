package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/handler"
	"github.com/nick/transcriber/internal/layout"
)

// View draws a snapshot. It holds no application state.
type View struct {
	layout config.LayoutConfig
	styles styles
	keys   handler.KeyMap
	help   help.Model
}

func NewView(cfg *config.TranscriberConfig, keys handler.KeyMap) *View {
	return &View{
		layout: cfg.Layout,
		styles: newStyles(cfg.Style),
		keys:   keys,
		help:   help.New(),
	}
}

// Render returns the full screen for s, exactly Viewport.Height lines of at
// most Viewport.Width cells. A zero viewport renders nothing.
func (v *View) Render(s app.Snapshot) string {
	w, h := s.Viewport.Width, s.Viewport.Height
	if w <= 0 || h <= 0 {
		return ""
	}

	top, bottom := layout.Split(s.Viewport)
	footer := v.footer(s, w)
	footerLines := strings.Split(footer, "\n")
	outputHeight := max(bottom.Height-len(footerLines), 0)
	if outputHeight == 0 {
		footerLines = footerLines[:min(len(footerLines), bottom.Height)]
	}

	control := v.controlPanel(s, top.Width, top.Height)
	control = overlay(control, v.button(s), layout.Button(s.Viewport, v.layout))

	var screen []string
	screen = append(screen, splitLines(control, top.Height)...)
	screen = append(screen, splitLines(v.outputPanel(s, w, outputHeight), outputHeight)...)
	screen = append(screen, footerLines...)
	return strings.Join(fit(screen, w, h), "\n")
}

func (v *View) controlPanel(s app.Snapshot, width, height int) string {
	innerW, innerH := width-2, height-2
	if innerW <= 0 || innerH <= 0 {
		return ""
	}

	indicator := v.styles.idle.Render("○ idle")
	if s.Recording {
		indicator = v.styles.recording.Render("● REC")
	}

	lines := []string{
		v.styles.title.Render(v.layout.Title),
		"Press Esc, Ctrl-C or q to stop running.",
		"Press left and right to decrement and increment the counter.",
		"Press space to start or stop transcription, or click the button to start.",
		fmt.Sprintf("Counter: %d   %s", s.Counter, indicator),
	}

	body := lipgloss.NewStyle().Width(innerW).Align(lipgloss.Center)
	content := make([]string, 0, innerH)
	for _, l := range lines {
		content = append(content, body.Render(ansi.Truncate(l, innerW, "…")))
	}
	return v.styles.panel.Width(innerW).Render(strings.Join(splitLines(strings.Join(content, "\n"), innerH), "\n"))
}

func (v *View) button(s app.Snapshot) string {
	r := layout.Button(s.Viewport, v.layout)
	if r.Width < 2 || r.Height < 2 {
		return ""
	}
	label := v.layout.ButtonLabel
	if s.Recording {
		label = "● " + label
	}
	innerW := r.Width - 2
	box := v.styles.button.Width(innerW).Height(max(r.Height-2, 0))
	return box.Render(ansi.Truncate(label, innerW, ""))
}

func (v *View) outputPanel(s app.Snapshot, width, height int) string {
	innerW, innerH := width-2, height-2
	if innerW <= 0 || innerH <= 0 {
		return ""
	}

	var header []string
	if s.Filter.Active || s.Filter.Query != "" {
		prompt := "Filter: " + s.Filter.Query
		if s.Filter.Active {
			prompt += "_"
		}
		header = append(header, v.styles.filter.Render(ansi.Truncate(prompt, innerW, "…")))
	}

	var body []string
	for _, r := range s.Visible {
		wrapped := wordwrap.String(app.DisplayLine(r), innerW)
		for _, l := range strings.Split(wrapped, "\n") {
			body = append(body, ansi.Truncate(l, innerW, ""))
		}
	}

	// Show the newest lines that fit below the title and header.
	room := max(innerH-len(header)-1, 0)
	if len(body) > room {
		body = body[len(body)-room:]
	}

	title := v.styles.title.Render(v.layout.OutputTitle)
	content := append([]string{title}, header...)
	content = append(content, body...)
	return v.styles.output.Width(innerW).Render(strings.Join(splitLines(strings.Join(content, "\n"), innerH), "\n"))
}

func (v *View) footer(s app.Snapshot, width int) string {
	link := v.styles.offline.Render(s.Link)
	if s.Connected {
		link = v.styles.online.Render(s.Link)
	}
	line := link
	if s.Status != "" {
		line += "  " + v.styles.status.Render(s.Status)
	}

	h := v.help
	h.Width = width
	h.ShowAll = s.ShowHelp
	return lipgloss.JoinVertical(lipgloss.Left, line, h.View(v.keys))
}

// overlay draws over onto base with its top-left corner at r.
func overlay(base, over string, r layout.Rect) string {
	if over == "" || r.Empty() {
		return base
	}
	lines := strings.Split(base, "\n")
	for i, fl := range strings.Split(over, "\n") {
		y := r.Y + i
		if y >= len(lines) || i >= r.Height {
			break
		}
		left := ansi.Truncate(lines[y], r.X, "")
		if pad := r.X - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(lines[y], r.X+ansi.StringWidth(fl), "")
		lines[y] = left + fl + right
	}
	return strings.Join(lines, "\n")
}

// splitLines returns exactly n lines of s, padding with blanks.
func splitLines(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	var lines []string
	if s != "" {
		lines = strings.Split(s, "\n")
	}
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

func fit(lines []string, width, height int) []string {
	lines = splitLines(strings.Join(lines, "\n"), height)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	return lines
}
