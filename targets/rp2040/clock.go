//go:build rp2040 || rp2350

package main

import (
	"bootclock/core"
)

const (
	timerFrequency = 1000000 // the RP2 timer ticks once per microsecond
	timerPriority  = 200
	timerName      = "rp2-timer"
)

// timerCounter reads the free-running 64-bit microsecond timer
type timerCounter struct{}

// Init discards a few readings so the first baseline is taken from a
// settled tick generator.
func (timerCounter) Init() error {
	_ = timerRawL.Get()
	_ = timerRawL.Get()
	_ = timerRawL.Get()
	return nil
}

// Read returns the full 64-bit timer value
func (timerCounter) Read() uint64 {
	// high, low, high: retry if the low word rolled over in between
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// newTimerSource describes the RP2 timer to the clock
func newTimerSource() (*core.ClockSource, error) {
	return core.NewClockSource(timerName, timerCounter{}, timerFrequency, 64, 3600, timerPriority)
}
