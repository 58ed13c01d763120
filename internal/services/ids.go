package services

import (
	"sync"
	"time"
)

// idClock hands out strictly increasing instants at microsecond resolution,
// so record ids derived from them never repeat within a process.
type idClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newIDClock(now func() time.Time) *idClock {
	if now == nil {
		now = time.Now
	}
	return &idClock{now: now}
}

// Next returns the current time truncated to microseconds, bumped past the
// previously issued instant when the clock has not advanced.
func (c *idClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
