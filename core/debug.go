package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ClockEvent captures a clocksource decision for post-mortem analysis
type ClockEvent struct {
	EventType uint8  // Event type code
	Priority  int32  // Priority of the source involved
	TimeNs    uint64 // Clock time when the event happened
	Source    string // Source name
}

// Event type codes
const (
	EvtSourceInstalled = 1 // clocksource became active
	EvtSourceRejected  = 2 // priority not above the active source
	EvtInitFailed      = 3 // Init hook returned an error
	EvtDummyActive     = 4 // dummy still active late in boot
)

const (
	EventRingSize = 16 // Keep last 16 events
)

// eventRing is a fixed-size, allocation-free log of clock events.
type eventRing struct {
	events [EventRingSize]ClockEvent
	head   uint8 // Next write position
}

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// warnPrintln writes a message regardless of debugEnabled.
// Used for conditions the firmware must always report.
func warnPrintln(msg string) {
	if debugPrintln != nil {
		debugPrintln(msg)
	}
}

func (r *eventRing) record(eventType uint8, cs *ClockSource, timeNs uint64) {
	idx := r.head
	r.events[idx] = ClockEvent{
		EventType: eventType,
		Priority:  cs.Priority,
		TimeNs:    timeNs,
		Source:    cs.label(),
	}
	r.head = (idx + 1) % EventRingSize
}

// snapshot returns recorded events, oldest first.
func (r *eventRing) snapshot() []ClockEvent {
	out := make([]ClockEvent, 0, EventRingSize)
	start := r.head
	for i := uint8(0); i < EventRingSize; i++ {
		evt := r.events[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

func (r *eventRing) clear() {
	for i := range r.events {
		r.events[i] = ClockEvent{}
	}
	r.head = 0
}

// EventName returns the printable name of an event type.
func EventName(eventType uint8) string {
	switch eventType {
	case EvtSourceInstalled:
		return "INSTALLED"
	case EvtSourceRejected:
		return "REJECTED"
	case EvtInitFailed:
		return "INIT_FAILED!"
	case EvtDummyActive:
		return "DUMMY_ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// formatEvent renders one event the way DumpEvents prints it.
func formatEvent(evt ClockEvent) string {
	return "[CLOCK] " + EventName(evt.EventType) +
		" source=" + evt.Source +
		" prio=" + itoa(int(evt.Priority)) +
		" t=" + utoa64(evt.TimeNs)
}
