// Package monotonic exposes the host's raw monotonic clock as a 1 GHz
// clocksource, for running the clock core outside of firmware.
package monotonic

import "bootclock/core"

// Frequency is the rate of the counter: one tick per nanosecond
const Frequency = core.NSecPerSec

// NewSource returns a clocksource backed by a new Counter
func NewSource(name string, maxSec uint32, priority int32) (*core.ClockSource, error) {
	return core.NewClockSource(name, &Counter{}, Frequency, 64, maxSec, priority)
}
