package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/handler"
)

func TestBridgeForwardsInput(t *testing.T) {
	v, _ := testView()
	input := make(chan event.Event, 3)
	m := newBridgeModel(v, input, make(chan struct{}))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.MouseMsg{X: 3, Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, Type: tea.MouseLeft})
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	assert.Equal(t, event.Key{Name: "right"}, <-input)
	assert.Equal(t, event.Mouse{X: 3, Y: 4, Button: event.MouseButtonLeft, Action: event.MouseActionPress}, <-input)
	assert.Equal(t, event.Resize{Width: 90, Height: 30}, <-input)
}

func TestBridgeDrawsLatestFrame(t *testing.T) {
	v, _ := testView()
	m := newBridgeModel(v, make(chan event.Event), make(chan struct{}))
	assert.Equal(t, "", m.View())

	s := app.NewState(nil)
	s.Resize(80, 24)
	m.Update(frameMsg{snap: s.Snapshot()})
	assert.Contains(t, m.View(), "Counter: 0")
}

func TestBridgeForwardUnblocksOnClose(t *testing.T) {
	v, _ := testView()
	closing := make(chan struct{})
	m := newBridgeModel(v, make(chan event.Event), closing)

	done := make(chan struct{})
	go func() {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		close(done)
	}()
	close(closing)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update stayed blocked after close")
	}
}

func TestConvertKey(t *testing.T) {
	assert.Equal(t, event.Key{Name: " ", Runes: []rune{' '}}, convertKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}))
	assert.Equal(t, event.Key{Name: "ctrl+c"}, convertKey(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.Equal(t, event.Key{Name: "a", Runes: []rune("a")}, convertKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}))
}

func TestConvertMouse(t *testing.T) {
	cases := []struct {
		name string
		in   tea.MouseMsg
		want event.Mouse
	}{
		{"left press", tea.MouseMsg{X: 5, Y: 6, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, Type: tea.MouseLeft},
			event.Mouse{X: 5, Y: 6, Button: event.MouseButtonLeft, Action: event.MouseActionPress}},
		{"right press", tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionPress, Type: tea.MouseRight},
			event.Mouse{Button: event.MouseButtonRight, Action: event.MouseActionPress}},
		{"wheel", tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress, Type: tea.MouseWheelUp},
			event.Mouse{Button: event.MouseButtonWheelUp, Action: event.MouseActionPress}},
		{"release", tea.MouseMsg{Button: tea.MouseButtonNone, Action: tea.MouseActionRelease, Type: tea.MouseRelease},
			event.Mouse{Action: event.MouseActionRelease}},
		{"motion", tea.MouseMsg{Button: tea.MouseButtonNone, Action: tea.MouseActionMotion, Type: tea.MouseMotion},
			event.Mouse{Action: event.MouseActionMotion}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, convertMouse(tc.in))
		})
	}
}

func TestDragWithLeftHeldIsNotPress(t *testing.T) {
	// Type is MouseLeft for every cell of a left-button drag.
	drag := tea.MouseMsg{X: 40, Y: 7, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion, Type: tea.MouseLeft}

	ev, ok := convertMouse(drag).(event.Mouse)
	require.True(t, ok)
	assert.Equal(t, event.MouseActionMotion, ev.Action)
	assert.Equal(t, event.MouseButtonLeft, ev.Button)
	assert.False(t, ev.IsPress())
}

func TestTerminalReadRenderClose(t *testing.T) {
	cfg := config.Default()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	term := NewTerminal(cfg, handler.NewKeyMap(cfg.Keybinding), nil,
		tea.WithInput(pr),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	term.Start()

	go func() { _, _ = pw.Write([]byte("q")) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, err := term.ReadEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q", ev.(event.Key).Name)

	s := app.NewState(nil)
	require.NoError(t, term.Render(s.Snapshot()))

	require.NoError(t, term.Close())
	require.NoError(t, term.Close())

	_, err = term.ReadEvent(context.Background())
	assert.ErrorIs(t, err, ErrTerminalClosed)
	assert.ErrorIs(t, term.Render(s.Snapshot()), ErrTerminalClosed)
}

func TestCloseWithoutStart(t *testing.T) {
	cfg := config.Default()
	term := NewTerminal(cfg, handler.NewKeyMap(cfg.Keybinding), nil)
	assert.NoError(t, term.Close())
}
