package event

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startMerger(t *testing.T, rate time.Duration, src InputSource) *Merger {
	t.Helper()
	m := NewMerger(rate, src)
	m.Start(context.Background())
	t.Cleanup(m.Stop)
	return m
}

func nextWithin(t *testing.T, m *Merger, d time.Duration) (Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return m.Next(ctx)
}

func TestNextDeliversInputInOrder(t *testing.T) {
	ch := make(chan Event)
	m := startMerger(t, time.Hour, FromChannel(ch))

	go func() {
		ch <- Key{Name: "right"}
		ch <- Key{Name: "left"}
		ch <- Resize{Width: 80, Height: 24}
	}()

	want := []Event{Key{Name: "right"}, Key{Name: "left"}, Resize{Width: 80, Height: 24}}
	for i, w := range want {
		ev, err := nextWithin(t, m, time.Second)
		if err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
		switch got := ev.(type) {
		case Key:
			if wk, ok := w.(Key); !ok || wk.Name != got.Name {
				t.Fatalf("event %d: got %#v, want %#v", i, got, w)
			}
		case Resize:
			if got != w {
				t.Fatalf("event %d: got %#v, want %#v", i, got, w)
			}
		default:
			t.Fatalf("event %d: unexpected %T", i, ev)
		}
	}
}

func TestNextDeliversTicks(t *testing.T) {
	m := startMerger(t, 5*time.Millisecond, FromChannel(make(chan Event)))

	for i := 0; i < 3; i++ {
		ev, err := nextWithin(t, m, time.Second)
		if err != nil {
			t.Fatalf("tick %d: unexpected error: %v", i, err)
		}
		if _, ok := ev.(Tick); !ok {
			t.Fatalf("tick %d: got %T, want Tick", i, ev)
		}
	}
}

func TestNextAfterStopReturnsErrStopped(t *testing.T) {
	ch := make(chan Event, 1)
	m := NewMerger(time.Millisecond, FromChannel(ch))
	m.Start(context.Background())
	ch <- Key{Name: "q"}

	m.Stop()
	for i := 0; i < 5; i++ {
		ev, err := nextWithin(t, m, 50*time.Millisecond)
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("call %d: got (%v, %v), want ErrStopped", i, ev, err)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := NewMerger(time.Millisecond, FromChannel(make(chan Event)))
	m.Start(context.Background())
	m.Stop()
	m.Stop()
}

func TestNextBeforeStart(t *testing.T) {
	m := NewMerger(time.Second, FromChannel(make(chan Event)))
	if _, err := m.Next(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	m.Stop()
}

func TestInputFailureSurfacesEventError(t *testing.T) {
	ch := make(chan Event)
	close(ch)
	m := startMerger(t, time.Hour, FromChannel(ch))

	_, err := nextWithin(t, m, time.Second)
	var evErr *EventError
	if !errors.As(err, &evErr) {
		t.Fatalf("expected *EventError, got %v", err)
	}
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected wrapped ErrInputClosed, got %v", evErr.Err)
	}

	if _, err := nextWithin(t, m, 50*time.Millisecond); !errors.As(err, &evErr) {
		t.Fatalf("expected failure to persist, got %v", err)
	}
}

func TestNextHonoursCallerContext(t *testing.T) {
	m := startMerger(t, time.Hour, FromChannel(make(chan Event)))

	_, err := nextWithin(t, m, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestParentCancelStopsMerger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMerger(time.Millisecond, FromChannel(make(chan Event)))
	m.Start(ctx)
	t.Cleanup(m.Stop)

	cancel()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := nextWithin(t, m, 50*time.Millisecond); errors.Is(err, ErrStopped) {
			return
		}
	}
	t.Fatalf("merger did not stop after parent cancel")
}

func TestMouseIsPress(t *testing.T) {
	cases := []struct {
		name string
		ev   Mouse
		want bool
	}{
		{"left press", Mouse{Button: MouseButtonLeft, Action: MouseActionPress}, true},
		{"right press", Mouse{Button: MouseButtonRight, Action: MouseActionPress}, true},
		{"release", Mouse{Button: MouseButtonLeft, Action: MouseActionRelease}, false},
		{"motion", Mouse{Button: MouseButtonNone, Action: MouseActionMotion}, false},
		{"wheel", Mouse{Button: MouseButtonWheelUp, Action: MouseActionPress}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ev.IsPress(); got != tc.want {
				t.Fatalf("IsPress() = %v, want %v", got, tc.want)
			}
		})
	}
}
