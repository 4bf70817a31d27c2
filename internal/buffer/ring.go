package buffer

import "sync"

// Ring keeps the last N bytes written to it. It is used to bound the
// transcript of a terminal session without unbounded growth.
type Ring struct {
	mu   sync.RWMutex
	buf  []byte
	w    int
	full bool
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1
	}
	return &Ring{buf: make([]byte, size)}
}

// Write never fails; the oldest bytes are overwritten once the ring is full.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(p)
	if n >= len(r.buf) {
		// Only the tail survives.
		copy(r.buf, p[n-len(r.buf):])
		r.w = 0
		r.full = true
		return n, nil
	}
	for len(p) > 0 {
		c := copy(r.buf[r.w:], p)
		p = p[c:]
		r.w += c
		if r.w == len(r.buf) {
			r.w = 0
			r.full = true
		}
	}
	return n, nil
}

// Bytes returns a copy of the buffered content, oldest first.
func (r *Ring) Bytes() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		return append([]byte(nil), r.buf[:r.w]...)
	}
	out := make([]byte, 0, len(r.buf))
	out = append(out, r.buf[r.w:]...)
	return append(out, r.buf[:r.w]...)
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.buf)
	}
	return r.w
}

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Reset() {
	r.mu.Lock()
	r.w = 0
	r.full = false
	r.mu.Unlock()
}
