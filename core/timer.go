package core

import "time"

// systemClock is the clock of the running boot stage, installed by the
// stage entry code with SetSystemClock.
var systemClock *Clock

// SetSystemClock is called at stage entry to install the stage's clock.
func SetSystemClock(c *Clock) {
	systemClock = c
}

// MustClock returns the installed clock. Without one there is no time
// base at all, which is the same fatal condition as a clock without a
// clocksource.
func MustClock() *Clock {
	if systemClock == nil {
		panic(ErrNoClock)
	}
	return systemClock
}

// RegisterClockSource offers cs to the system clock.
func RegisterClockSource(cs *ClockSource) (bool, error) {
	return MustClock().Register(cs)
}

// GetTimeNs returns the system clock time in nanoseconds
func GetTimeNs() uint64 {
	return MustClock().GetTimeNs()
}

// GetUptime returns the system clock time as a duration
func GetUptime() time.Duration {
	return MustClock().GetTime()
}

// IsTimeout checks a deadline against the system clock, yielding for long waits
func IsTimeout(startNs, offsetNs uint64) bool {
	return MustClock().IsTimeout(startNs, offsetNs)
}

// IsTimeoutNonInterruptible checks a deadline against the system clock
func IsTimeoutNonInterruptible(startNs, offsetNs uint64) bool {
	return MustClock().IsTimeoutNonInterruptible(startNs, offsetNs)
}

// Ndelay busy-waits on the system clock without yielding
func Ndelay(nsecs uint64) {
	MustClock().Ndelay(nsecs)
}

// Udelay waits on the system clock
func Udelay(usecs uint64) {
	MustClock().Udelay(usecs)
}

// Mdelay waits on the system clock
func Mdelay(msecs uint64) {
	MustClock().Mdelay(msecs)
}

// MdelayNonInterruptible waits on the system clock without yielding
func MdelayNonInterruptible(msecs uint64) {
	MustClock().MdelayNonInterruptible(msecs)
}

// WaitOnTimeout polls cond on the system clock
func WaitOnTimeout(timeoutNs uint64, cond func() bool) error {
	return MustClock().WaitOnTimeout(timeoutNs, cond)
}
