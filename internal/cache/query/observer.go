package query

import "sync"

// observer — почтовый ящик подписчика. Хранит только последний недоставленный снимок
// и доставляет снимки в отдельной горутине строго по возрастанию Version.
type observer struct {
	listener Listener

	mu      sync.Mutex
	pending *State
	last    uint64
	running bool
	closed  bool
}

func newObserver(listener Listener, last uint64) *observer {
	return &observer{listener: listener, last: last}
}

func (o *observer) offer(s State) {
	if o.listener == nil {
		return
	}

	o.mu.Lock()
	if o.closed || s.Version <= o.last || (o.pending != nil && s.Version <= o.pending.Version) {
		o.mu.Unlock()
		return
	}
	o.pending = &s
	if o.running {
		o.mu.Unlock()
		return
	}
	o.running = true
	o.mu.Unlock()

	go o.drain()
}

func (o *observer) drain() {
	for {
		o.mu.Lock()
		if o.closed || o.pending == nil {
			o.running = false
			o.mu.Unlock()
			return
		}
		s := *o.pending
		o.pending = nil
		o.last = s.Version
		o.mu.Unlock()

		o.listener(s)
	}
}

func (o *observer) close() {
	o.mu.Lock()
	o.closed = true
	o.pending = nil
	o.mu.Unlock()
}
