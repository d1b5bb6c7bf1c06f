// Package countdown provides a per-second countdown driven by Bubble Tea
// tick messages.
//
// A Timer is a value. Every outstanding tick carries the timer's ID and a
// generation tag; Stop, Reset and each handled tick advance the tag, so at
// most one tick chain is ever live and a stale tick can never decrement the
// value a second time.
package countdown

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultInterval is the wall-clock length of one tick.
const DefaultInterval = time.Second

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// TickMsg is delivered once per interval while a timer is running.
type TickMsg struct {
	ID  int
	tag int
}

// ExpiredMsg is delivered once when a running timer reaches zero.
type ExpiredMsg struct {
	ID int
}

// Timer counts down whole seconds.
type Timer struct {
	id        int
	tag       int
	remaining *int
	active    bool

	// Interval is the duration of one tick. Zero means DefaultInterval.
	Interval time.Duration
}

// New creates a stopped timer. A nil initial value means "no timer".
// Negative values are clamped to zero.
func New(initial *int) Timer {
	return Timer{
		id:        nextID(),
		remaining: clampCopy(initial),
	}
}

// NewWithInterval creates a stopped timer with a custom tick interval.
func NewWithInterval(initial *int, interval time.Duration) Timer {
	t := New(initial)
	t.Interval = interval
	return t
}

// ID returns the identifier carried by this timer's messages.
func (t Timer) ID() int {
	return t.id
}

// Remaining returns the current value. ok is false when there is no timer.
func (t Timer) Remaining() (secs int, ok bool) {
	if t.remaining == nil {
		return 0, false
	}
	return *t.remaining, true
}

// RemainingPtr returns a copy of the current value, or nil.
func (t Timer) RemainingPtr() *int {
	return clampCopy(t.remaining)
}

// Running reports whether ticks are being scheduled.
func (t Timer) Running() bool {
	return t.active && t.remaining != nil && *t.remaining > 0
}

// Expired reports whether the timer exists and has reached zero.
func (t Timer) Expired() bool {
	return t.remaining != nil && *t.remaining == 0
}

// Start activates the timer and schedules the first tick. A timer with no
// value or a zero value never ticks.
func (t Timer) Start() (Timer, tea.Cmd) {
	if t.active {
		return t, nil
	}
	t.active = true
	t.tag++
	if !t.Running() {
		return t, nil
	}
	return t, t.tick()
}

// Stop deactivates the timer. Any tick already scheduled is ignored when it
// arrives. Stopping a stopped timer is a no-op.
func (t Timer) Stop() Timer {
	if !t.active {
		return t
	}
	t.active = false
	t.tag++
	return t
}

// Reset replaces the value. If the timer is active, counting restarts from
// the new value.
func (t Timer) Reset(initial *int) (Timer, tea.Cmd) {
	t.remaining = clampCopy(initial)
	t.tag++
	if !t.Running() {
		return t, nil
	}
	return t, t.tick()
}

// Update handles tick messages addressed to this timer.
func (t Timer) Update(msg tea.Msg) (Timer, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id || tick.tag != t.tag {
		return t, nil
	}
	if !t.Running() {
		return t, nil
	}

	next := *t.remaining - 1
	if next < 0 {
		next = 0
	}
	t.remaining = &next
	t.tag++

	if next == 0 {
		t.active = false
		id := t.id
		return t, func() tea.Msg { return ExpiredMsg{ID: id} }
	}
	return t, t.tick()
}

func (t Timer) tick() tea.Cmd {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	id, tag := t.id, t.tag
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}

func clampCopy(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < 0 {
		n = 0
	}
	return &n
}
