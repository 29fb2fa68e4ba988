package hovermenu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler captures scheduled closes so tests control when they fire.
type manualScheduler struct {
	pending   []func()
	cancelled []bool
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) CancelFunc {
	i := len(s.pending)
	s.pending = append(s.pending, fn)
	s.cancelled = append(s.cancelled, false)
	return func() { s.cancelled[i] = true }
}

// fire runs the i-th scheduled task the way a real timer would, regardless of
// cancellation; the menu's generation check must sort it out.
func (s *manualScheduler) fire(i int) {
	s.pending[i]()
}

func newTestMenu(opts ...Option) (*Menu, *manualScheduler) {
	sched := &manualScheduler{}
	opts = append([]Option{WithScheduler(sched.schedule)}, opts...)
	return New(opts...), sched
}

func TestMenu_StartsClosed(t *testing.T) {
	m, _ := newTestMenu()
	assert.Equal(t, State{}, m.State())
}

func TestTriggerEnter_OpensImmediately(t *testing.T) {
	m, sched := newTestMenu()

	m.TriggerEnter(3)

	assert.Equal(t, State{Open: true, CategoryID: 3}, m.State())
	assert.Empty(t, sched.pending)
}

func TestTriggerEnter_SwitchesCategoryWithoutClosing(t *testing.T) {
	m, _ := newTestMenu()

	m.TriggerEnter(1)
	m.TriggerEnter(2)

	assert.Equal(t, State{Open: true, CategoryID: 2}, m.State())
}

func TestTriggerLeave_ClosesAfterDelay(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)

	m.TriggerLeave()
	require.Len(t, sched.pending, 1)
	assert.Equal(t, State{Open: true, CategoryID: 1}, m.State(), "still open until the delay elapses")

	sched.fire(0)
	assert.Equal(t, State{}, m.State())
}

func TestTriggerLeave_WhenClosedIsNoop(t *testing.T) {
	m, sched := newTestMenu()

	m.TriggerLeave()

	assert.Empty(t, sched.pending)
	assert.Equal(t, State{}, m.State())
}

func TestPanelEnter_CancelsPendingClose(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)
	m.TriggerLeave()

	m.PanelEnter()

	assert.True(t, sched.cancelled[0])
	assert.Equal(t, State{Open: true, CategoryID: 1}, m.State())
}

func TestTriggerEnter_CancelsPendingClose(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)
	m.TriggerLeave()

	m.TriggerEnter(2)

	assert.True(t, sched.cancelled[0])
	assert.Equal(t, State{Open: true, CategoryID: 2}, m.State())
}

func TestCancelledTimerFiringIsDiscarded(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)
	m.TriggerLeave()
	m.PanelEnter()

	// A real timer may still fire after Stop returned false.
	sched.fire(0)

	assert.Equal(t, State{Open: true, CategoryID: 1}, m.State())
}

func TestStaleTimerCannotCloseNewerPanel(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)
	m.TriggerLeave()
	m.TriggerEnter(2)
	m.TriggerLeave()
	require.Len(t, sched.pending, 2)

	// The first (stale) close fires late; only the second may close the menu.
	sched.fire(0)
	assert.Equal(t, State{Open: true, CategoryID: 2}, m.State())

	sched.fire(1)
	assert.Equal(t, State{}, m.State())
}

func TestPanelLeave_ClosesImmediately(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)

	m.PanelLeave()

	assert.Equal(t, State{}, m.State())
	assert.Empty(t, sched.pending)
}

func TestClose_CancelsPendingAndCloses(t *testing.T) {
	m, sched := newTestMenu()
	m.TriggerEnter(1)
	m.TriggerLeave()

	m.Close()

	assert.True(t, sched.cancelled[0])
	assert.Equal(t, State{}, m.State())

	// The orphaned timer firing later must not reopen or re-close anything.
	sched.fire(0)
	assert.Equal(t, State{}, m.State())
}

func TestNotify_ObservesTransitions(t *testing.T) {
	var states []State
	m, sched := newTestMenu(WithNotify(func(st State) { states = append(states, st) }))

	m.TriggerEnter(1)
	m.TriggerEnter(1) // no change, no notification
	m.TriggerEnter(2)
	m.TriggerLeave()
	sched.fire(0)

	assert.Equal(t, []State{
		{Open: true, CategoryID: 1},
		{Open: true, CategoryID: 2},
		{},
	}, states)
}

func TestWithCloseDelay(t *testing.T) {
	var got time.Duration
	m := New(
		WithCloseDelay(50*time.Millisecond),
		WithScheduler(func(d time.Duration, fn func()) CancelFunc {
			got = d
			return func() {}
		}),
	)
	m.TriggerEnter(1)
	m.TriggerLeave()

	assert.Equal(t, 50*time.Millisecond, got)
}

func TestDefaultCloseDelay(t *testing.T) {
	var got time.Duration
	m := New(WithScheduler(func(d time.Duration, fn func()) CancelFunc {
		got = d
		return func() {}
	}))
	m.TriggerEnter(1)
	m.TriggerLeave()

	assert.Equal(t, 300*time.Millisecond, got)
}
