package monitor

import "time"

// Clock supplies monotonic uptime and the blocking sleep used by the loop.
// Tests substitute a fake that advances on Sleep.
type Clock interface {
	Uptime() time.Duration
	Sleep(d time.Duration)
}

// SystemClock measures uptime from its creation.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Uptime() time.Duration {
	return time.Since(c.start)
}

func (c *SystemClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func millis(c Clock) int64 {
	return c.Uptime().Milliseconds()
}

func micros(c Clock) int64 {
	return c.Uptime().Microseconds()
}
