// Package dispatch drives the application: each iteration renders the
// current state, waits for one terminal event or inbound engine line, and
// routes it.
package dispatch

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/transport"
)

// ErrRender marks a failed render. It ends the loop.
var ErrRender = errors.New("dispatch: render failed")

type Phase int32

const (
	Running Phase = iota
	Terminating
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Events is the merged terminal event stream.
type Events interface {
	Next(ctx context.Context) (event.Event, error)
	Stop()
}

type Renderer interface {
	Render(snap app.Snapshot) error
}

// InputHandler applies key and mouse events to the state.
type InputHandler interface {
	HandleKey(s *app.State, k event.Key)
	HandleMouse(s *app.State, m event.Mouse)
}

type Options struct {
	State    *app.State
	Events   Events
	Renderer Renderer
	Handler  InputHandler
	// Terminal is closed last during teardown and restores the tty.
	Terminal io.Closer
	Logger   *logging.Logger
}

type Loop struct {
	state    *app.State
	events   Events
	renderer Renderer
	handler  InputHandler
	terminal io.Closer
	log      *logging.Logger

	phase atomic.Int32
	pumps sync.WaitGroup

	// inboundErr is written by the inbound pump before it closes its channel.
	inboundErr error
}

func New(opts Options) *Loop {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Loop{
		state:    opts.State,
		events:   opts.Events,
		renderer: opts.Renderer,
		handler:  opts.Handler,
		terminal: opts.Terminal,
		log:      log.Child("dispatch"),
	}
}

func (l *Loop) Phase() Phase { return Phase(l.phase.Load()) }

type eventResult struct {
	ev  event.Event
	err error
}

// Run blocks until the state stops running, ctx is cancelled, or a fatal
// error occurs. Teardown runs on every return path. A cancelled ctx is a
// clean quit.
func (l *Loop) Run(ctx context.Context) error {
	pumpCtx, cancel := context.WithCancel(ctx)
	defer l.teardown(cancel)

	events := make(chan eventResult)
	l.pumps.Add(1)
	go l.pumpEvents(pumpCtx, events)

	var inbound chan string
	if conn, ok := l.state.Conn(); ok {
		inbound = make(chan string)
		l.pumps.Add(1)
		go l.pumpInbound(pumpCtx, conn, inbound)
	}

	l.log.Info().Bool("connected", inbound != nil).Msg("dispatch loop started")

	for l.state.Running {
		if err := l.renderer.Render(l.state.Snapshot()); err != nil {
			return errors.Wrapf(ErrRender, "%v", err)
		}

		select {
		case <-ctx.Done():
			l.log.Info().Msg("context cancelled, quitting")
			l.state.Quit()

		case res := <-events:
			if res.err != nil {
				if ctx.Err() != nil {
					l.state.Quit()
					continue
				}
				return errors.Wrap(res.err, "next event")
			}
			l.route(res.ev)

		case line, ok := <-inbound:
			if !ok {
				inbound = nil
				l.inboundClosed()
				continue
			}
			l.state.AppendResponse(line)
		}
	}
	return nil
}

func (l *Loop) route(ev event.Event) {
	switch ev := ev.(type) {
	case event.Tick:
	case event.Key:
		l.handler.HandleKey(l.state, ev)
	case event.Mouse:
		l.handler.HandleMouse(l.state, ev)
	case event.Resize:
		l.state.Resize(ev.Width, ev.Height)
	default:
		l.log.Warn().Type("event", ev).Msg("unhandled event")
	}
}

func (l *Loop) inboundClosed() {
	if err := l.inboundErr; err != nil {
		l.log.Error().Err(err).Msg("inbound read path stopped")
		l.state.SetStatus("engine read failed: " + err.Error())
		return
	}
	l.log.Info().Msg("engine closed the connection")
	l.state.SetStatus("engine closed the connection")
}

func (l *Loop) pumpEvents(ctx context.Context, out chan<- eventResult) {
	defer l.pumps.Done()
	for {
		ev, err := l.events.Next(ctx)
		select {
		case out <- eventResult{ev: ev, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (l *Loop) pumpInbound(ctx context.Context, conn app.Conn, out chan<- string) {
	defer l.pumps.Done()
	defer close(out)
	for {
		line, err := conn.Receive()
		if err != nil {
			// A local close during teardown is not a read failure.
			if !errors.Is(err, transport.ErrClosed) {
				l.inboundErr = err
			}
			return
		}
		if line == "" {
			return
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) teardown(cancelPumps context.CancelFunc) {
	l.phase.Store(int32(Terminating))
	l.log.Info().Msg("tearing down")

	cancelPumps()
	if l.events != nil {
		l.events.Stop()
	}
	if err := l.state.CloseLink(); err != nil {
		l.log.Warn().Err(err).Msg("close transport")
	}
	if l.terminal != nil {
		if err := l.terminal.Close(); err != nil {
			l.log.Warn().Err(err).Msg("restore terminal")
		}
	}
	l.pumps.Wait()

	l.phase.Store(int32(Stopped))
	l.log.Info().Msg("dispatch loop stopped")
}
