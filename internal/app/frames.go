package app

import "sync"

// FrameBuffer keeps the latest JPEG encoded camera frame.
type FrameBuffer struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// Set replaces the frame. The buffer keeps data; callers must not modify it.
func (b *FrameBuffer) Set(data []byte) {
	b.mu.Lock()
	b.jpeg = data
	b.seq++
	b.mu.Unlock()
}

// Latest returns the current frame and its sequence number. The sequence
// is zero until the first frame arrives.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}
