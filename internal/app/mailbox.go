package app

import (
	"sync"

	"github.com/robertgvds/vision-games/internal/landmark"
)

// Mailbox holds the most recent tracking sample. A newer sample replaces
// an unread one; a read empties the slot.
type Mailbox struct {
	mu     sync.Mutex
	sample *landmark.Sample
}

// Put stores s, dropping any unread sample.
func (m *Mailbox) Put(s *landmark.Sample) {
	m.mu.Lock()
	m.sample = s
	m.mu.Unlock()
}

// Take returns the unread sample, or nil when none arrived since the last
// Take. It never blocks.
func (m *Mailbox) Take() *landmark.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sample
	m.sample = nil
	return s
}

// Clear drops any unread sample.
func (m *Mailbox) Clear() {
	m.Put(nil)
}
