package transport

import (
	"fmt"
	"net"
	"syscall"

	"github.com/pkg/errors"
)

// ErrClosed is returned by operations on a client whose connection has been
// closed locally or has reached end of stream.
var ErrClosed = errors.New("transport: connection closed")

// ConnectError reports that the engine endpoint is missing or refused the
// connection.
type ConnectError struct {
	Path string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Path, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Missing reports whether the socket file does not exist.
func (e *ConnectError) Missing() bool {
	return errors.Is(e.Err, syscall.ENOENT)
}

// Refused reports whether a socket file exists but nothing is listening on it.
func (e *ConnectError) Refused() bool {
	return errors.Is(e.Err, syscall.ECONNREFUSED)
}

// IoError is a read or write failure on an established connection.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline expiry and the
// connection is still usable.
func (e *IoError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
