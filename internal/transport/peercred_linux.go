//go:build linux

package transport

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func peerUID(fd uintptr) (uint32, error) {
	ucred, err := unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	if err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return 0, errPeerCredUnsupported
		}
		return 0, errors.Wrap(err, "getsockopt(SO_PEERCRED)")
	}
	return ucred.Uid, nil
}
