package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
)

// Client owns one connection to the engine socket. The read half (a buffered
// reader) and the write half (the raw conn behind a mutex) can be used from
// different goroutines at the same time; both share one Close.
type Client struct {
	path string
	conn net.Conn

	readMu sync.Mutex
	reader *bufio.Reader
	eof    bool

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

// Connect dials the unix socket at path. A missing or refusing endpoint is
// reported as *ConnectError.
func Connect(ctx context.Context, path string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &ConnectError{Path: path, Err: err}
	}
	return newClient(path, conn), nil
}

func newClient(path string, conn net.Conn) *Client {
	return &Client{
		path:   path,
		conn:   conn,
		reader: bufio.NewReader(conn),
		closed: make(chan struct{}),
	}
}

// Path returns the socket path the client is connected to.
func (c *Client) Path() string { return c.path }

// Send writes message as-is. It returns once the bytes have been handed to
// the socket; nothing is buffered between calls.
func (c *Client) Send(message string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.isClosed() {
		return &IoError{Op: "send", Err: ErrClosed}
	}
	if _, err := io.WriteString(c.conn, message); err != nil {
		return &IoError{Op: "send", Err: err}
	}
	return nil
}

// Receive blocks until a full line is available and returns it including
// the trailing newline. When the peer closes the connection it returns ""
// and a nil error once, closes the client, and every later call returns
// ErrClosed. Bytes after the last newline are returned as a final line
// before the end-of-stream signal.
func (c *Client) Receive() (string, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.eof {
		return "", ErrClosed
	}

	line, err := c.reader.ReadString('\n')
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF):
		if line != "" {
			return line, nil
		}
		c.eof = true
		_ = c.Close()
		return "", nil
	case c.isClosed() || errors.Is(err, net.ErrClosed):
		c.eof = true
		return "", ErrClosed
	default:
		return "", &IoError{Op: "receive", Err: err}
	}
}

// Close closes the connection. It is safe to call more than once and from
// either half.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Done is closed once the connection has been closed.
func (c *Client) Done() <-chan struct{} { return c.closed }

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
