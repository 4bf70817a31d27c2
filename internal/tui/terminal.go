// Package tui adapts a bubbletea program into the terminal collaborator of
// the dispatch loop: it is both the raw input source and the renderer.
package tui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/handler"
	"github.com/nick/transcriber/internal/logging"
)

// ErrTerminalClosed is returned once the bubbletea program has exited.
var ErrTerminalClosed = errors.New("tui: terminal closed")

type Terminal struct {
	program *tea.Program
	log     *logging.Logger

	input   chan event.Event
	closing chan struct{}
	exited  chan struct{}
	runErr  error

	frames chan struct{}
	mu     sync.Mutex
	latest app.Snapshot

	startOnce sync.Once
	closeOnce sync.Once
	started   atomic.Bool
	closeErr  error
}

// NewTerminal builds the program. Extra options are applied after the
// defaults from ProgramOptions.
func NewTerminal(cfg *config.TranscriberConfig, keys handler.KeyMap, log *logging.Logger, opts ...tea.ProgramOption) *Terminal {
	if log == nil {
		log = logging.Nop()
	}
	t := &Terminal{
		log:     log.Child("tui"),
		input:   make(chan event.Event),
		closing: make(chan struct{}),
		exited:  make(chan struct{}),
		frames:  make(chan struct{}, 1),
	}
	model := newBridgeModel(NewView(cfg, keys), t.input, t.closing)
	t.program = tea.NewProgram(model, append(ProgramOptions(cfg), opts...)...)
	return t
}

// Start puts the terminal into raw mode and begins reading input.
func (t *Terminal) Start() {
	t.startOnce.Do(func() {
		t.started.Store(true)
		go func() {
			_, err := t.program.Run()
			t.runErr = err
			close(t.exited)
		}()
		go t.forwardFrames()
	})
}

// ReadEvent implements event.InputSource.
func (t *Terminal) ReadEvent(ctx context.Context) (event.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev := <-t.input:
		return ev, nil
	case <-t.exited:
		if t.runErr != nil {
			return nil, errors.Wrap(t.runErr, "terminal program")
		}
		return nil, ErrTerminalClosed
	}
}

// Render stores the snapshot and schedules a redraw. It never blocks on the
// bubbletea event loop.
func (t *Terminal) Render(snap app.Snapshot) error {
	select {
	case <-t.exited:
		return ErrTerminalClosed
	default:
	}

	t.mu.Lock()
	t.latest = snap
	t.mu.Unlock()

	select {
	case t.frames <- struct{}{}:
	default:
	}
	return nil
}

func (t *Terminal) forwardFrames() {
	for {
		select {
		case <-t.frames:
			t.mu.Lock()
			snap := t.latest
			t.mu.Unlock()
			t.program.Send(frameMsg{snap: snap})
		case <-t.closing:
			return
		case <-t.exited:
			return
		}
	}
}

// Close stops the program and waits for it to restore the terminal.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.closing)
		if !t.started.Load() {
			return
		}
		t.program.Quit()
		<-t.exited
		if t.runErr != nil && !errors.Is(t.runErr, tea.ErrProgramKilled) {
			t.closeErr = t.runErr
		}
		t.log.Debug().Msg("terminal restored")
	})
	return t.closeErr
}
