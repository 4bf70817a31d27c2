package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultTickRate is used when a merger is built with a non-positive rate.
const DefaultTickRate = 250 * time.Millisecond

var (
	// ErrStopped is returned by Next once the merger has been stopped.
	ErrStopped = errors.New("event: merger stopped")
	// ErrNotStarted is returned by Next before Start.
	ErrNotStarted = errors.New("event: merger not started")
	// ErrInputClosed is returned by a channel source whose channel was closed.
	ErrInputClosed = errors.New("event: input closed")
)

// EventError reports a failure of the terminal input subsystem. The
// application cannot continue without input.
type EventError struct {
	Err error
}

func (e *EventError) Error() string { return "terminal input: " + e.Err.Error() }

func (e *EventError) Unwrap() error { return e.Err }

// InputSource yields decoded terminal input. ReadEvent must return promptly
// once ctx is cancelled.
type InputSource interface {
	ReadEvent(ctx context.Context) (Event, error)
}

type chanSource struct {
	ch <-chan Event
}

// FromChannel adapts a channel of events into an InputSource. A closed
// channel is reported as ErrInputClosed.
func FromChannel(ch <-chan Event) InputSource {
	return chanSource{ch: ch}
}

func (s chanSource) ReadEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-s.ch:
		if !ok {
			return nil, ErrInputClosed
		}
		return ev, nil
	}
}

// Merger runs a tick producer and an input producer and hands their events
// out through Next in arrival order. Each producer blocks until its event
// has been taken, so at most one event per producer is pending.
type Merger struct {
	tickRate time.Duration
	input    InputSource

	ticks  chan Event
	inputs chan Event

	started  atomic.Bool
	stopping <-chan struct{}
	cancel   context.CancelFunc
	finished chan struct{}

	mu      sync.Mutex
	failure error

	stopOnce sync.Once
}

func NewMerger(tickRate time.Duration, input InputSource) *Merger {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Merger{
		tickRate: tickRate,
		input:    input,
		ticks:    make(chan Event),
		inputs:   make(chan Event),
		finished: make(chan struct{}),
	}
}

// Start launches both producers. They run until Stop is called, ctx is
// cancelled, or the input source fails. Start must be called once, before
// Next.
func (m *Merger) Start(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	m.stopping = gctx.Done()

	g.Go(func() error { return m.runTicker(gctx) })
	g.Go(func() error { return m.runInput(gctx) })

	go func() {
		_ = g.Wait()
		close(m.finished)
	}()
}

// Next blocks until the next tick or input event is available. After the
// merger has stopped it returns ErrStopped, or *EventError if the input
// source failed, and never another event.
func (m *Merger) Next(ctx context.Context) (Event, error) {
	if !m.started.Load() {
		return nil, ErrNotStarted
	}
	if m.isStopping() {
		return nil, m.stopErr()
	}

	var ev Event
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.stopping:
		return nil, m.stopErr()
	case ev = <-m.ticks:
	case ev = <-m.inputs:
	}

	// Stop may have raced with a producer handing over its event.
	if m.isStopping() {
		return nil, m.stopErr()
	}
	return ev, nil
}

// Stop cancels both producers and waits for them to exit.
func (m *Merger) Stop() {
	if !m.started.Load() {
		return
	}
	m.stopOnce.Do(func() {
		m.cancel()
		<-m.finished
	})
}

func (m *Merger) runTicker(ctx context.Context) error {
	t := time.NewTicker(m.tickRate)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			select {
			case m.ticks <- Tick{At: now}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (m *Merger) runInput(ctx context.Context) error {
	for {
		ev, err := m.input.ReadEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.mu.Lock()
			m.failure = err
			m.mu.Unlock()
			return err
		}
		select {
		case m.inputs <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Merger) isStopping() bool {
	select {
	case <-m.stopping:
		return true
	default:
		return false
	}
}

func (m *Merger) stopErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return &EventError{Err: m.failure}
	}
	return ErrStopped
}
