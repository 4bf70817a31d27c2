package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/pkg/errors"
)

var (
	authorizePeerConn      = defaultAuthorizePeerConn
	errPeerCredUnsupported = errors.New("peer credential inspection unsupported")
	peerCredWarningOnce    sync.Once
)

// Listener accepts engine-side connections on a unix socket. It exists for
// the standalone chat demo; the TUI itself only ever connects.
type Listener struct {
	path       string
	listener   net.Listener
	allowedUID int
	closeOnce  sync.Once
	// Warn receives platform warnings, such as missing peer credential support.
	Warn func(msg string)
}

// Listen removes any stale socket file at path, binds a new one readable
// only by the current user, and starts listening.
func Listen(path string) (*Listener, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, errors.Wrap(err, "remove existing socket")
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, errors.Wrap(err, "create unix socket")
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, errors.Wrap(err, "set unix socket permissions")
	}

	return &Listener{
		path:       path,
		listener:   ln,
		allowedUID: os.Geteuid(),
	}, nil
}

// Path returns the socket path.
func (l *Listener) Path() string { return l.path }

// Accept waits for the next authorized peer. Peers owned by another uid are
// rejected and the wait continues. Cancelling ctx closes the listener.
func (l *Listener) Accept(ctx context.Context) (*Client, error) {
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil, ErrClosed
			}
			return nil, errors.Wrap(err, "accept")
		}
		if err := l.authorize(conn); err != nil {
			if l.Warn != nil {
				l.Warn(fmt.Sprintf("rejected peer: %v", err))
			}
			conn.Close()
			continue
		}
		return newClient(l.path, conn), nil
	}
}

func (l *Listener) authorize(conn net.Conn) error {
	err := authorizePeerConn(conn, l.allowedUID)
	if errors.Is(err, errPeerCredUnsupported) {
		peerCredWarningOnce.Do(func() {
			if l.Warn != nil {
				l.Warn("peer credential checks not supported on this platform; relying on socket permissions only")
			}
		})
		return nil
	}
	return err
}

// Close stops listening and removes the socket file.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.listener.Close()
		_ = os.RemoveAll(l.path)
	})
	return err
}

func defaultAuthorizePeerConn(conn net.Conn, expectedUID int) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return errors.Errorf("unexpected connection type %T", conn)
	}

	sysConn, err := unixConn.SyscallConn()
	if err != nil {
		return errors.Wrap(err, "access unix connection")
	}

	var (
		peerUIDVal uint32
		credErr    error
	)
	if ctrlErr := sysConn.Control(func(fd uintptr) {
		peerUIDVal, credErr = peerUID(fd)
	}); ctrlErr != nil {
		return errors.Wrap(ctrlErr, "inspect peer credentials")
	}
	if credErr != nil {
		if errors.Is(credErr, errPeerCredUnsupported) {
			return errPeerCredUnsupported
		}
		return errors.Wrap(credErr, "read peer credentials")
	}

	if int(peerUIDVal) != expectedUID {
		return errors.Errorf("unauthorized peer uid %d (expected %d)", peerUIDVal, expectedUID)
	}
	return nil
}
