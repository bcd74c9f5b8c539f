package core

// Counter is a free-running hardware or synthetic counter.
// Read returns the raw counter value; bits above the source's mask are
// ignored.
type Counter interface {
	Read() uint64
}

// Initializer is implemented by counters that need one-time hardware
// setup. Init is called by Register right before the source is installed.
type Initializer interface {
	Init() error
}

// CounterFunc adapts a plain read function to the Counter interface.
type CounterFunc func() uint64

// Read calls f.
func (f CounterFunc) Read() uint64 {
	return f()
}

// ClockSource describes one counter to the clock.
type ClockSource struct {
	Name     string
	Counter  Counter
	Mask     uint64 // wrap boundary of the counter, see ClocksourceMask
	Mult     uint32 // ns = (cycles * Mult) >> Shift
	Shift    uint32
	Priority int32 // higher wins

	// last masked reading, owned by the Clock that installed the source
	cycleLast uint64
}

// NewClockSource builds a ClockSource for a counter running at hz with the
// given bit width. Mult and Shift are chosen to cover maxSec seconds
// between two reads without overflow.
func NewClockSource(name string, counter Counter, hz uint32, width uint, maxSec uint32, priority int32) (*ClockSource, error) {
	if counter == nil || width == 0 {
		return nil, ErrInvalidSource
	}

	mult, shift, err := CalcMultShift(hz, NSecPerSec, maxSec)
	if err != nil {
		return nil, err
	}

	return &ClockSource{
		Name:     name,
		Counter:  counter,
		Mask:     ClocksourceMask(width),
		Mult:     mult,
		Shift:    shift,
		Priority: priority,
	}, nil
}

// CycleLast returns the last masked reading taken from the source.
func (cs *ClockSource) CycleLast() uint64 {
	return cs.cycleLast
}

// readMasked reads the counter and drops bits above the wrap boundary.
func (cs *ClockSource) readMasked() uint64 {
	return cs.Counter.Read() & cs.Mask
}

// validate checks the fields the accumulator depends on.
func (cs *ClockSource) validate() error {
	if cs == nil || cs.Counter == nil || cs.Mask == 0 || cs.Mult == 0 || cs.Shift > 32 {
		return ErrInvalidSource
	}
	return nil
}

func (cs *ClockSource) label() string {
	if cs.Name == "" {
		return "unnamed"
	}
	return cs.Name
}
