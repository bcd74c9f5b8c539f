//go:build !linux

package monotonic

import "time"

// Counter reads the Go runtime's monotonic clock where the raw kernel
// clock is not available.
type Counter struct {
	epoch time.Time
}

// Init pins the counter's epoch
func (c *Counter) Init() error {
	c.epoch = time.Now()
	return nil
}

// Read returns nanoseconds since Init
func (c *Counter) Read() uint64 {
	if c.epoch.IsZero() {
		c.epoch = time.Now()
	}
	return uint64(time.Since(c.epoch))
}
