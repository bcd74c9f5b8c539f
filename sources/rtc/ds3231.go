// Package rtc turns a DS3231 real-time clock into a one-tick-per-second
// clocksource. It is coarse, but it keeps counting across power loss and
// is often the only independent time base on a board.
package rtc

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"

	"bootclock/core"
)

// Frequency is the RTC counter rate
const Frequency = 1

var ErrOscillatorStopped = errors.New("rtc: ds3231 oscillator did not start")

// Counter reads the DS3231 time as seconds since the Unix epoch.
type Counter struct {
	dev     ds3231.Device
	last    uint64
	lastErr error
}

// NewCounter returns a counter for a DS3231 at its default address
func NewCounter(bus drivers.I2C) *Counter {
	return &Counter{dev: ds3231.New(bus)}
}

// NewCounterAt returns a counter for a DS3231 at addr
func NewCounterAt(bus drivers.I2C, addr uint16) *Counter {
	c := NewCounter(bus)
	c.dev.Address = addr
	return c
}

// Init starts the oscillator if it is stopped and checks the time
// registers can be read.
func (c *Counter) Init() error {
	if !c.dev.IsRunning() {
		if err := c.dev.SetRunning(true); err != nil {
			return err
		}
		if !c.dev.IsRunning() {
			return ErrOscillatorStopped
		}
	}

	dt, err := c.dev.ReadTime()
	if err != nil {
		return err
	}
	c.last = uint64(dt.Unix())
	return nil
}

// Read returns seconds since the epoch. On a bus error the previous
// value is returned and the error is kept for LastError.
func (c *Counter) Read() uint64 {
	dt, err := c.dev.ReadTime()
	c.lastErr = err
	if err != nil {
		return c.last
	}
	c.last = uint64(dt.Unix())
	return c.last
}

// LastError returns the error of the most recent Read, if any
func (c *Counter) LastError() error {
	return c.lastErr
}

// NewSource returns a clocksource for a DS3231 on bus
func NewSource(name string, bus drivers.I2C, addr uint16, maxSec uint32, priority int32) (*core.ClockSource, error) {
	return core.NewClockSource(name, NewCounterAt(bus, addr), Frequency, 64, maxSec, priority)
}
