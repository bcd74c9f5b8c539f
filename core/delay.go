package core

// YieldThreshold is the shortest timeout, in ns, for which IsTimeout hands
// control to the cooperative scheduler while polling.
const YieldThreshold = 100 * NSecPerUSec

// IsTimeoutNonInterruptible reports whether offsetNs nanoseconds have
// passed since startNs. The signed difference stays correct across
// wraparound of the nanosecond counter. A zero offset has always expired.
func (c *Clock) IsTimeoutNonInterruptible(startNs, offsetNs uint64) bool {
	now := c.GetTimeNs()
	return offsetNs == 0 || int64(startNs+offsetNs-now) < 0
}

// IsTimeout is IsTimeoutNonInterruptible for longer waits: for offsets of
// YieldThreshold and above it also yields once per call, letting other
// cooperative work run. Yielding does not change the result.
func (c *Clock) IsTimeout(startNs, offsetNs uint64) bool {
	expired := c.IsTimeoutNonInterruptible(startNs, offsetNs)

	if offsetNs >= YieldThreshold {
		c.yield()
	}

	return expired
}

// Ndelay busy-waits for nsecs nanoseconds without ever yielding.
func (c *Clock) Ndelay(nsecs uint64) {
	start := c.GetTimeNs()

	for !c.IsTimeoutNonInterruptible(start, nsecs) {
	}
}

// Udelay waits for usecs microseconds, yielding when the wait is long
// enough.
func (c *Clock) Udelay(usecs uint64) {
	start := c.GetTimeNs()

	for !c.IsTimeout(start, usecs*NSecPerUSec) {
	}
}

// Mdelay waits for msecs milliseconds, yielding while it waits.
func (c *Clock) Mdelay(msecs uint64) {
	c.Udelay(msecs * 1000)
}

// MdelayNonInterruptible waits for msecs milliseconds without yielding,
// for callers that must not be interleaved with other work (the scheduler
// itself, multi-step hardware command sequences).
func (c *Clock) MdelayNonInterruptible(msecs uint64) {
	start := c.GetTimeNs()

	for !c.IsTimeoutNonInterruptible(start, msecs*NSecPerMSec) {
	}
}

// WaitOnTimeout polls cond until it returns true or timeoutNs nanoseconds
// have passed, yielding between polls of long waits. cond is checked one
// last time after the deadline so a late success still counts.
func (c *Clock) WaitOnTimeout(timeoutNs uint64, cond func() bool) error {
	start := c.GetTimeNs()

	for {
		if cond() {
			return nil
		}
		if c.IsTimeout(start, timeoutNs) {
			if cond() {
				return nil
			}
			return ErrTimeout
		}
	}
}
