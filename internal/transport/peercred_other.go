//go:build !linux && !darwin

package transport

func peerUID(fd uintptr) (uint32, error) {
	return 0, errPeerCredUnsupported
}
