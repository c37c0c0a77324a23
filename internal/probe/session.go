package probe

import (
	"sync"
	"time"
)

// Monitor implements SessionState by polling the platform lock query and
// publishing transitions to subscribers. On platforms without a lock query it
// reports permanently unlocked.
type Monitor struct {
	mu     sync.Mutex
	locked bool
	subs   map[int]func(bool)
	nextID int
	done   chan struct{}
}

// NewMonitor creates a session-state monitor. Call Start to begin polling.
func NewMonitor() *Monitor {
	return &Monitor{subs: make(map[int]func(bool))}
}

// Start begins polling the platform lock state at the given interval. It is
// a no-op when polling is already running or the platform has no lock query.
func (m *Monitor) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		return
	}
	if _, supported := sessionLocked(); !supported {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}
	m.done = make(chan struct{})
	go m.poll(interval, m.done)
}

// Close stops polling. Subscribers stay registered but receive no further
// notifications.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done == nil {
		return
	}
	close(m.done)
	m.done = nil
}

// Locked reports the last observed lock state.
func (m *Monitor) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Subscribe registers fn for lock transitions and returns a cancel function.
func (m *Monitor) Subscribe(fn func(locked bool)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Monitor) poll(interval time.Duration, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if locked, ok := sessionLocked(); ok {
				m.setLocked(locked)
			}
		}
	}
}

// setLocked records a new lock state and notifies subscribers on change.
func (m *Monitor) setLocked(locked bool) {
	m.mu.Lock()
	if m.locked == locked {
		m.mu.Unlock()
		return
	}
	m.locked = locked
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(locked)
	}
}
