// Package hovermenu implements the category dropdown state machine used by
// pointer-driven storefront navigation.
//
// At most one category panel is open at any moment. Leaving the trigger does
// not close the panel immediately: a short delay lets the pointer travel from
// the trigger down into the panel. Entering the panel cancels the pending
// close; leaving the panel closes at once.
package hovermenu

import (
	"sync"
	"time"
)

// DefaultCloseDelay is the grace period between leaving a trigger and the
// panel closing.
const DefaultCloseDelay = 300 * time.Millisecond

// CancelFunc cancels a scheduled task. Calling it more than once is allowed.
type CancelFunc func()

// ScheduleFunc runs fn after d and returns a cancel function. The default
// implementation is time.AfterFunc; tests inject a manual scheduler.
type ScheduleFunc func(d time.Duration, fn func()) CancelFunc

func afterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// State is the externally visible menu state.
type State struct {
	Open       bool
	CategoryID int64
}

// Menu is one dropdown menu instance. The zero value is not usable; use New.
// Methods are safe for concurrent use, though the expected driver is a single
// event loop.
type Menu struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule ScheduleFunc
	notify   func(State)

	open    bool
	current int64

	// cancel clears the pending close task, if any. gen invalidates a close
	// that fires after its cancel raced with the timer goroutine.
	cancel CancelFunc
	gen    uint64
}

// Option configures a Menu.
type Option func(*Menu)

// WithCloseDelay overrides DefaultCloseDelay.
func WithCloseDelay(d time.Duration) Option {
	return func(m *Menu) {
		if d > 0 {
			m.delay = d
		}
	}
}

// WithScheduler replaces the timer implementation.
func WithScheduler(s ScheduleFunc) Option {
	return func(m *Menu) { m.schedule = s }
}

// WithNotify registers a callback invoked (outside the internal lock) after
// every state change.
func WithNotify(fn func(State)) Option {
	return func(m *Menu) { m.notify = fn }
}

// New creates a closed Menu.
func New(opts ...Option) *Menu {
	m := &Menu{
		delay:    DefaultCloseDelay,
		schedule: afterFunc,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Menu) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Open: m.open, CategoryID: m.current}
}

// TriggerEnter opens the panel for categoryID immediately, superseding any
// other open panel and cancelling a pending close.
func (m *Menu) TriggerEnter(categoryID int64) {
	m.mu.Lock()
	m.cancelPendingLocked()
	changed := !m.open || m.current != categoryID
	m.open = true
	m.current = categoryID
	st := State{Open: true, CategoryID: categoryID}
	m.mu.Unlock()

	if changed {
		m.notifyState(st)
	}
}

// TriggerLeave schedules a close after the configured delay. A TriggerEnter
// or PanelEnter before the delay elapses cancels it.
func (m *Menu) TriggerLeave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return
	}
	m.cancelPendingLocked()
	m.gen++
	gen := m.gen
	m.cancel = m.schedule(m.delay, func() { m.closeIfCurrent(gen) })
}

// PanelEnter cancels a pending close, keeping the panel open.
func (m *Menu) PanelEnter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}

// PanelLeave closes the panel immediately.
func (m *Menu) PanelLeave() {
	m.closeNow()
}

// Close is the teardown transition: it cancels any pending timer and closes
// the panel. Call it when the owning component unmounts.
func (m *Menu) Close() {
	m.closeNow()
}

func (m *Menu) closeNow() {
	m.mu.Lock()
	m.cancelPendingLocked()
	changed := m.open
	m.open = false
	m.current = 0
	m.mu.Unlock()

	if changed {
		m.notifyState(State{})
	}
}

// closeIfCurrent is the deferred close body. The generation check discards a
// timer that fired concurrently with its own cancellation.
func (m *Menu) closeIfCurrent(gen uint64) {
	m.mu.Lock()
	if m.cancel == nil || m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.cancel = nil
	changed := m.open
	m.open = false
	m.current = 0
	m.mu.Unlock()

	if changed {
		m.notifyState(State{})
	}
}

// cancelPendingLocked stops the scheduled close, if any. Caller holds m.mu.
func (m *Menu) cancelPendingLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
}

func (m *Menu) notifyState(st State) {
	if m.notify != nil {
		m.notify(st)
	}
}
