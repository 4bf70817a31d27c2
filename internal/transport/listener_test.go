package transport

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAcceptRoundTrip(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	accepted := make(chan *Client, 1)
	go func() {
		c, err := ln.Accept(context.Background())
		if err == nil {
			accepted <- c
		}
		close(accepted)
	}()

	client := connect(t, path)
	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	require.NoError(t, client.Send("hello engine\n"))
	line, err := server.Receive()
	require.NoError(t, err)
	assert.Equal(t, "hello engine\n", line)
}

func TestListenerRejectsUnauthorizedPeer(t *testing.T) {
	orig := authorizePeerConn
	calls := 0
	authorizePeerConn = func(conn net.Conn, expectedUID int) error {
		calls++
		if calls == 1 {
			return errors.New("unauthorized")
		}
		return nil
	}
	t.Cleanup(func() { authorizePeerConn = orig })

	path := socketPath(t)
	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	var warnings []string
	ln.Warn = func(msg string) { warnings = append(warnings, msg) }

	accepted := make(chan *Client, 1)
	go func() {
		c, _ := ln.Accept(context.Background())
		accepted <- c
	}()

	first := connect(t, path)
	second := connect(t, path)

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	// the first peer was dropped by the listener
	line, err := first.Receive()
	require.NoError(t, err)
	assert.Equal(t, "", line)

	require.NoError(t, second.Send("ok\n"))
	line, err = server.Receive()
	require.NoError(t, err)
	assert.Equal(t, "ok\n", line)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unauthorized")
}

func TestAcceptStopsOnContextCancel(t *testing.T) {
	path := socketPath(t)
	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := ln.Accept(ctx)
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Accept did not return after cancel")
	}
}

func TestListenerCloseRemovesSocket(t *testing.T) {
	path := socketPath(t)
	ln, err := Listen(path)
	require.NoError(t, err)

	require.NoError(t, ln.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
