package domain

import "time"

// VirtualTime is a simulated timestamp in milliseconds since the Unix epoch.
// All calendar derivations (hour, day key) are done in UTC so that two runs of
// the same session produce the same schedule regardless of host timezone.
type VirtualTime int64

func VirtualTimeOf(t time.Time) VirtualTime {
	return VirtualTime(t.UnixMilli())
}

func (t VirtualTime) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

func (t VirtualTime) Hour() int {
	return t.Time().Hour()
}

func (t VirtualTime) Minute() int {
	return t.Time().Minute()
}

// DayKey identifies the virtual calendar day, used for once-per-day markers.
func (t VirtualTime) DayKey() string {
	return t.Time().Format("2006-01-02")
}

func (t VirtualTime) Add(d time.Duration) VirtualTime {
	return t + VirtualTime(d.Milliseconds())
}

func (t VirtualTime) IsZero() bool {
	return t == 0
}

// Default tick cadence: every 300ms of wall time the clock gains 1s of virtual
// time (~3.33x speed). Tunable per session via config, constant within one.
const (
	DefaultRealStep    = 300 * time.Millisecond
	DefaultVirtualStep = time.Second
)

// VirtualClock owns the simulated timestamp for one session. It is not safe
// for concurrent use; all mutation happens on the session's tick loop.
type VirtualClock struct {
	now    VirtualTime
	paused bool
}

func NewVirtualClock(start VirtualTime) *VirtualClock {
	return &VirtualClock{now: start}
}

func (c *VirtualClock) Now() VirtualTime {
	return c.now
}

func (c *VirtualClock) Paused() bool {
	return c.paused
}

func (c *VirtualClock) Pause() {
	c.paused = true
}

func (c *VirtualClock) Resume() {
	c.paused = false
}

// Advance moves virtual time forward by delta. While paused it is a no-op, so
// the automatic tick driver does not need to special-case the paused state.
func (c *VirtualClock) Advance(delta time.Duration) VirtualTime {
	if c.paused || delta <= 0 {
		return c.now
	}
	c.now = c.now.Add(delta)
	return c.now
}

// SkipTo jumps the clock directly to target. Backward jumps are ignored; the
// only way time moves backward is a session reset through Reset.
func (c *VirtualClock) SkipTo(target VirtualTime) VirtualTime {
	if target > c.now {
		c.now = target
	}
	return c.now
}

// Reset reinitializes the clock, typically from a character's scenario start
// time. This is the one operation allowed to move time backward.
func (c *VirtualClock) Reset(start VirtualTime) {
	c.now = start
	c.paused = false
}
