package core

const (
	// DefaultDummyRate is how far the dummy counter advances per read, in ns.
	DefaultDummyRate = 1000

	// DummyPriority is below every real clocksource.
	DummyPriority = -1

	dummyName = "dummy"
)

// dummyCounter is a synthetic counter that moves forward a fixed amount on
// every read. It keeps delays terminating before any real hardware counter
// has been registered.
type dummyCounter struct {
	counter uint64
	rate    uint64
}

func (d *dummyCounter) Read() uint64 {
	d.counter += d.rate
	return d.counter
}

// newDummySource returns a 1:1 nanosecond source backed by a dummyCounter.
func newDummySource(rate uint64) *ClockSource {
	return &ClockSource{
		Name:     dummyName,
		Counter:  &dummyCounter{rate: rate},
		Mask:     ClocksourceMask(64),
		Mult:     1,
		Shift:    0,
		Priority: DummyPriority,
	}
}
