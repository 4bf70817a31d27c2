package e2e

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nick/transcriber/internal/transport"
)

// Engine is a stand-in for the transcription engine. It accepts one client
// and records the command lines it sends.
type Engine struct {
	Path string

	listener *transport.Listener
	accepted chan *transport.Client
	cancel   context.CancelFunc

	mu       sync.Mutex
	client   *transport.Client
	received []string
}

// StartEngine listens on a fresh socket under /tmp.
func StartEngine(t testing.TB) *Engine {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "transcriber-e2e-")
	if err != nil {
		t.Fatalf("socket dir: %v", err)
	}
	path := filepath.Join(dir, "engine.sock")

	l, err := transport.Listen(path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{Path: path, listener: l, accepted: make(chan *transport.Client, 1), cancel: cancel}

	go e.serve(ctx)

	t.Cleanup(func() {
		_ = e.Close()
		_ = os.RemoveAll(dir)
	})
	return e
}

func (e *Engine) serve(ctx context.Context) {
	c, err := e.listener.Accept(ctx)
	if err != nil {
		close(e.accepted)
		return
	}
	e.mu.Lock()
	e.client = c
	e.mu.Unlock()
	e.accepted <- c

	for {
		line, err := c.Receive()
		if err != nil || line == "" {
			return
		}
		e.mu.Lock()
		e.received = append(e.received, line)
		e.mu.Unlock()
	}
}

// WaitForClient blocks until the transcriber has connected.
func (e *Engine) WaitForClient(timeout time.Duration) (*transport.Client, bool) {
	select {
	case c, ok := <-e.accepted:
		if ok {
			e.accepted <- c
		}
		return c, ok
	case <-time.After(timeout):
		return nil, false
	}
}

// Send writes a line to the connected client.
func (e *Engine) Send(line string) error {
	e.mu.Lock()
	c := e.client
	e.mu.Unlock()
	if c == nil {
		return transport.ErrClosed
	}
	return c.Send(line)
}

// Received returns the command lines seen so far.
func (e *Engine) Received() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.received...)
}

// WaitForReceived waits until at least n lines have arrived.
func (e *Engine) WaitForReceived(n int, timeout time.Duration) []string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := e.Received(); len(got) >= n {
			return got
		}
		time.Sleep(25 * time.Millisecond)
	}
	return e.Received()
}

// Disconnect hangs up on the client.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	c := e.client
	e.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

func (e *Engine) Close() error {
	e.cancel()
	e.Disconnect()
	return e.listener.Close()
}
