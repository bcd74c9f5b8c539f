package core

import "time"

// ClockState is the clock lifecycle position. It only ever moves forward.
type ClockState uint8

const (
	StateUninitialized ClockState = iota // no clocksource, earliest boot phase
	StateDummyActive                     // only the dummy fallback is installed
	StateSourceActive                    // a real clocksource is installed
)

func (s ClockState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDummyActive:
		return "dummy"
	case StateSourceActive:
		return "active"
	default:
		return "unknown"
	}
}

// Options configures a Clock at creation.
type Options struct {
	// DisableDummy leaves the clock without a fallback source, as in the
	// earliest boot phase. GetTimeNs halts until a source is registered.
	DisableDummy bool

	// DummyRate is the dummy counter step per read in ns (0 = DefaultDummyRate)
	DummyRate uint64
}

// Clock is the monotonic nanosecond time base of one boot stage.
//
// A Clock is created at stage entry and used from a single thread of
// control until handoff. It is not safe for concurrent use.
type Clock struct {
	active *ClockSource
	dummy  *ClockSource
	timeNs uint64
	yield  func()
	events eventRing
}

// NewClock creates a clock. Unless opts.DisableDummy is set, the dummy
// clocksource is installed right away so time always advances.
func NewClock(opts Options) *Clock {
	c := &Clock{
		yield: func() {},
	}

	if !opts.DisableDummy {
		rate := opts.DummyRate
		if rate == 0 {
			rate = DefaultDummyRate
		}
		c.dummy = newDummySource(rate)
		c.active = c.dummy
	}

	return c
}

// Register offers cs to the clock. It becomes the active source only if
// its priority is strictly higher than the active one's; on equal priority
// the source registered first stays. The returned bool reports whether cs
// was installed.
//
// On install, the counter's Init hook (if any) runs first and the current
// counter value becomes the baseline, so cycles counted before this point
// are never added to the clock.
func (c *Clock) Register(cs *ClockSource) (bool, error) {
	if err := cs.validate(); err != nil {
		return false, err
	}

	// Output may go to a USB or UART writer that needs interrupts, so it
	// is only emitted once the critical section is closed.
	installed, msg, err := c.install(cs)
	if err != nil {
		warnPrintln(msg)
	} else {
		DebugPrintln(msg)
	}
	return installed, err
}

// install arbitrates cs and, if it wins, runs init, baseline capture and
// publish as one critical section. It returns the message describing the
// decision.
func (c *Clock) install(cs *ClockSource) (bool, string, error) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.active != nil && cs.Priority <= c.active.Priority {
		c.events.record(EvtSourceRejected, cs, c.timeNs)
		return false, "[CLOCK] " + cs.label() + " prio=" + itoa(int(cs.Priority)) +
			" not above " + c.active.label() + " prio=" + itoa(int(c.active.Priority)), nil
	}

	if hw, ok := cs.Counter.(Initializer); ok {
		if err := hw.Init(); err != nil {
			c.events.record(EvtInitFailed, cs, c.timeNs)
			return false, "[CLOCK] init of " + cs.label() + " failed: " + err.Error(),
				&InitError{Source: cs.Name, Err: err}
		}
	}

	// The counter may have been free-running since power-on.
	cs.cycleLast = cs.readMasked()
	c.active = cs

	c.events.record(EvtSourceInstalled, cs, c.timeNs)
	return true, "[CLOCK] using " + cs.label() + " prio=" + itoa(int(cs.Priority)) +
		" mult=" + utoa64(uint64(cs.Mult)) + " shift=" + utoa64(uint64(cs.Shift)), nil
}

// GetTimeNs advances the clock by the cycles counted since the previous
// call and returns the nanoseconds elapsed since the clock started.
//
// The counter may wrap at most once between two calls. Without an active
// clocksource there is no time to return and GetTimeNs panics with
// ErrNoClock.
func (c *Clock) GetTimeNs() uint64 {
	cs := c.active
	if cs == nil {
		panic(ErrNoClock)
	}

	now := cs.readMasked()
	delta := (now - cs.cycleLast) & cs.Mask
	cs.cycleLast = now

	c.timeNs += CyclesToNs(delta, cs.Mult, cs.Shift)
	return c.timeNs
}

// GetTime is GetTimeNs as a time.Duration since the clock started.
func (c *Clock) GetTime() time.Duration {
	return time.Duration(c.GetTimeNs())
}

// Active returns the installed clocksource, or nil in the earliest phase.
func (c *Clock) Active() *ClockSource {
	return c.active
}

// State reports the lifecycle position of the clock.
func (c *Clock) State() ClockState {
	switch {
	case c.active == nil:
		return StateUninitialized
	case c.active == c.dummy:
		return StateDummyActive
	default:
		return StateSourceActive
	}
}

// SetYield sets the cooperative yield hook used by IsTimeout and the
// delays built on it. A nil hook disables yielding.
func (c *Clock) SetYield(yield func()) {
	if yield == nil {
		yield = func() {}
	}
	c.yield = yield
}

// WarnIfDummy reports when the dummy clocksource is still in use once the
// board had its chance to register real hardware. Returns true if so.
func (c *Clock) WarnIfDummy() bool {
	if c.State() != StateDummyActive {
		return false
	}
	c.events.record(EvtDummyActive, c.dummy, c.timeNs)
	warnPrintln("Warning: Using dummy clocksource")
	return true
}

// Events returns the recorded clock events, oldest first.
func (c *Clock) Events() []ClockEvent {
	return c.events.snapshot()
}

// DumpEvents writes the event ring through the debug writer.
func (c *Clock) DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[CLOCK] === Event Ring Dump ===")
	debugPrintln("[CLOCK] state=" + c.State().String() + " time_ns=" + utoa64(c.timeNs))
	for _, evt := range c.events.snapshot() {
		debugPrintln(formatEvent(evt))
	}
	debugPrintln("[CLOCK] === End Dump ===")
}

// ClearEvents clears the event ring
func (c *Clock) ClearEvents() {
	c.events.clear()
}
