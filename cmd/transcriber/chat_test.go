package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/transport"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *lockedBuffer, want string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(out.String(), want) },
		2*time.Second, 10*time.Millisecond, "output %q never contained %q", out.String(), want)
}

func receiveLine(t *testing.T, c *transport.Client) string {
	t.Helper()
	got := make(chan string, 1)
	go func() {
		line, _ := c.Receive()
		got <- line
	}()
	select {
	case line := <-got:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no line received")
		return ""
	}
}

func TestChatBecomesListenerWhenNoPeer(t *testing.T) {
	path := tempSocket(t, "chat.sock")
	stdinR, stdinW := io.Pipe()
	t.Cleanup(func() { stdinW.Close() })
	out := &lockedBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runChat(ctx, path, stdinR, out, logging.Nop()) }()

	waitForOutput(t, out, "Listening for connections...")

	peer, err := transport.Connect(context.Background(), path)
	require.NoError(t, err)
	waitForOutput(t, out, "Peer connected!")

	require.NoError(t, peer.Send("hi there\n"))
	waitForOutput(t, out, "Received: hi there")

	_, err = stdinW.Write([]byte("hello peer\n"))
	require.NoError(t, err)
	require.Equal(t, "hello peer\n", receiveLine(t, peer))

	require.NoError(t, peer.Close())
	waitForOutput(t, out, "Peer disconnected")
	waitForOutput(t, out, "Ready for new connection...")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat did not stop on cancel")
	}
}

func TestChatJoinsExistingPeer(t *testing.T) {
	path := tempSocket(t, "chat.sock")
	l, err := transport.Listen(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	stdinR, stdinW := io.Pipe()
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() { done <- runChat(context.Background(), path, stdinR, out, logging.Nop()) }()

	server, err := l.Accept(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })
	waitForOutput(t, out, "Connected to existing chat!")

	require.NoError(t, server.Send("yo\n"))
	waitForOutput(t, out, "Received: yo")

	_, err = stdinW.Write([]byte("ping\n"))
	require.NoError(t, err)
	require.Equal(t, "ping\n", receiveLine(t, server))

	require.NoError(t, stdinW.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat did not stop at end of input")
	}
}
