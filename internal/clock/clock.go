// Package clock provides the one-second session countdown as Bubble Tea commands.
package clock

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPeriod is the countdown resolution.
const DefaultPeriod = time.Second

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is delivered once per period while a clock runs.
type TickMsg struct {
	ID int
	At time.Time
}

// Clock schedules ticks for one running session. Every Start or Stop
// invalidates ticks that are already in flight, so a stopped clock never
// delivers another accepted tick.
type Clock struct {
	period  time.Duration
	id      int
	running bool
}

// New returns a stopped clock.
func New(period time.Duration) *Clock {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Clock{period: period}
}

// Start runs the clock under a fresh id and returns the first tick command.
func (c *Clock) Start() tea.Cmd {
	c.id = nextID()
	c.running = true
	return c.tick()
}

// Stop halts the clock.
func (c *Clock) Stop() {
	c.running = false
	c.id = nextID()
}

// Update reports whether msg belongs to this clock and, if so, schedules the
// next tick.
func (c *Clock) Update(msg TickMsg) (bool, tea.Cmd) {
	if !c.running || msg.ID != c.id {
		return false, nil
	}
	return true, c.tick()
}

// Running reports whether the clock is active.
func (c *Clock) Running() bool { return c.running }

// ID returns the id stamped on the current ticks.
func (c *Clock) ID() int { return c.id }

func (c *Clock) tick() tea.Cmd {
	id := c.id
	return tea.Tick(c.period, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, At: t}
	})
}
