//go:build darwin

package transport

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func peerUID(fd uintptr) (uint32, error) {
	xucred, err := unix.GetsockoptXucred(int(fd), unix.SOL_LOCAL, unix.LOCAL_PEERCRED)
	if err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return 0, errPeerCredUnsupported
		}
		return 0, errors.Wrap(err, "getsockopt(LOCAL_PEERCRED)")
	}
	if xucred == nil {
		return 0, errors.New("xucred not available")
	}
	if xucred.Uid == ^uint32(0) {
		return 0, errors.New("peer reported invalid uid")
	}
	return xucred.Uid, nil
}
