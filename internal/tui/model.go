package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/event"
)

// frameMsg carries the snapshot the loop last rendered.
type frameMsg struct {
	snap app.Snapshot
}

// bridgeModel is the bubbletea side of the terminal. It owns no
// application state: input is forwarded to the dispatch loop and View
// draws whatever snapshot arrived last.
type bridgeModel struct {
	view    *View
	snap    app.Snapshot
	input   chan<- event.Event
	closing <-chan struct{}
}

func newBridgeModel(view *View, input chan<- event.Event, closing <-chan struct{}) *bridgeModel {
	return &bridgeModel{view: view, input: input, closing: closing}
}

func (m *bridgeModel) Init() tea.Cmd { return nil }

func (m *bridgeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.snap = msg.snap
	case tea.KeyMsg:
		m.forward(convertKey(msg))
	case tea.MouseMsg:
		m.forward(convertMouse(msg))
	case tea.WindowSizeMsg:
		m.forward(event.Resize{Width: msg.Width, Height: msg.Height})
	}
	return m, nil
}

func (m *bridgeModel) View() string {
	return m.view.Render(m.snap)
}

// forward blocks until the loop takes the event or the terminal closes.
func (m *bridgeModel) forward(ev event.Event) {
	select {
	case m.input <- ev:
	case <-m.closing:
	}
}

func convertKey(msg tea.KeyMsg) event.Event {
	runes := msg.Runes
	if msg.Type == tea.KeySpace {
		runes = []rune{' '}
	}
	return event.Key{Name: msg.String(), Runes: runes}
}

// convertMouse maps from Action and Button. Type reports a held left
// button during drags as MouseLeft, which would look like a fresh press.
func convertMouse(msg tea.MouseMsg) event.Event {
	ev := event.Mouse{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Action = event.MouseActionPress
	case tea.MouseActionRelease:
		ev.Action = event.MouseActionRelease
	default:
		ev.Action = event.MouseActionMotion
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = event.MouseButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = event.MouseButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = event.MouseButtonRight
	case tea.MouseButtonWheelUp:
		ev.Button = event.MouseButtonWheelUp
	case tea.MouseButtonWheelDown:
		ev.Button = event.MouseButtonWheelDown
	default:
		ev.Button = event.MouseButtonNone
	}
	return ev
}
