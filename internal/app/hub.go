package app

import (
	"sync"
)

// maxUrgent bounds the urgent views held for one subscriber.
const maxUrgent = 64

// Hub fans views out to subscribers. Plain views are latest-wins for slow
// subscribers; urgent views are queued and delivered in order.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	latest *View
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe returns a channel of views and a function that ends the
// subscription. The latest view, if any, is delivered first.
func (h *Hub) Subscribe() (<-chan View, func()) {
	s := &subscriber{
		out:  make(chan View),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	if h.latest != nil {
		s.push(*h.latest)
	}
	h.mu.Unlock()

	go s.run()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.done)
		})
	}
	return s.out, cancel
}

// Publish hands v to every subscriber without blocking.
func (h *Hub) Publish(v View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &v
	for s := range h.subs {
		s.push(v)
	}
}

// Latest returns the last published view.
func (h *Hub) Latest() (View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return View{}, false
	}
	return *h.latest, true
}

type subscriber struct {
	out  chan View
	wake chan struct{}
	done chan struct{}

	mu     sync.Mutex
	urgent []View
	plain  *View
}

// push queues v. A plain view replaces the pending plain view; an urgent
// view also drops it, since the urgent one is newer.
func (s *subscriber) push(v View) {
	s.mu.Lock()
	if v.Urgent() {
		if len(s.urgent) == maxUrgent {
			s.urgent = s.urgent[1:]
		}
		s.urgent = append(s.urgent, v)
		s.plain = nil
	} else {
		s.plain = &v
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) next() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.urgent) > 0 {
		v := s.urgent[0]
		s.urgent = s.urgent[1:]
		return v, true
	}
	if s.plain != nil {
		v := *s.plain
		s.plain = nil
		return v, true
	}
	return View{}, false
}

func (s *subscriber) run() {
	for {
		v, ok := s.next()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
