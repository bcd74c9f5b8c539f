// Package board assembles a clock from a board configuration: it opens
// every configured clocksource and registers it in order.
package board

import (
	"errors"
	"fmt"
	"io"
	"time"

	"bootclock/config"
	"bootclock/core"
	"bootclock/host/i2c"
	"bootclock/host/monotonic"
	"bootclock/host/serial"
	"bootclock/sources/rtc"
)

var ErrNoClocksource = errors.New("board: no clocksource could be installed")

// Opener turns one source configuration into a clocksource. The returned
// closer, if any, releases the device behind it.
type Opener func(src config.SourceConfig) (*core.ClockSource, io.Closer, error)

// DefaultOpeners maps each config kind to the opener used by Build
var DefaultOpeners = map[string]Opener{
	config.KindMonotonic: openMonotonic,
	config.KindSerial:    openSerial,
	config.KindDS3231:    openDS3231,
}

// Registration records what happened to one configured source
type Registration struct {
	Name      string
	Kind      string
	Priority  int32
	Installed bool
	Err       error
}

// Board is a running clock and the devices it reads
type Board struct {
	Name      string
	Clock     *core.Clock
	Scheduler *core.Scheduler
	Results   []Registration

	closers []io.Closer
}

// Build creates the clock described by cfg using DefaultOpeners
func Build(cfg *config.BoardConfig) (*Board, error) {
	return BuildWith(cfg, DefaultOpeners)
}

// BuildWith creates the clock described by cfg. A source that fails to
// open or initialize is recorded in Results and skipped, like a probe
// failure during board bring-up. Build fails only if the clock is left
// without any clocksource.
func BuildWith(cfg *config.BoardConfig, openers map[string]Opener) (*Board, error) {
	clock := core.NewClock(core.Options{
		DisableDummy: cfg.EarlyPhase,
		DummyRate:    cfg.DummyRate,
	})

	b := &Board{
		Name:      cfg.Name,
		Clock:     clock,
		Scheduler: core.NewScheduler(clock),
	}

	for _, src := range cfg.Sources {
		reg := Registration{Name: src.Name, Kind: src.Kind, Priority: src.Priority}

		open, ok := openers[src.Kind]
		if !ok {
			reg.Err = fmt.Errorf("no opener for kind %q", src.Kind)
			b.Results = append(b.Results, reg)
			continue
		}

		cs, closer, err := open(src)
		if err != nil {
			reg.Err = err
			b.Results = append(b.Results, reg)
			continue
		}

		reg.Installed, reg.Err = clock.Register(cs)
		if reg.Installed {
			if closer != nil {
				b.closers = append(b.closers, closer)
			}
		} else if closer != nil {
			closer.Close()
		}
		b.Results = append(b.Results, reg)
	}

	if clock.State() == core.StateUninitialized {
		b.Close()
		return nil, ErrNoClocksource
	}
	return b, nil
}

// Close releases every device opened for an installed source
func (b *Board) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func openMonotonic(src config.SourceConfig) (*core.ClockSource, io.Closer, error) {
	// always 1 GHz and 64 bits wide, whatever the config says
	cs, err := monotonic.NewSource(src.Name, src.MaxSeconds, src.Priority)
	return cs, nil, err
}

func openSerial(src config.SourceConfig) (*core.ClockSource, io.Closer, error) {
	cfg := &serial.Config{
		Device:      src.Device,
		Baud:        src.Baud,
		ReadTimeout: time.Duration(src.ReadTimeoutMs) * time.Millisecond,
	}
	cs, counter, err := serial.NewSource(src.Name, cfg, src.FrequencyHz, src.Bits, src.MaxSeconds, src.Priority)
	if err != nil {
		return nil, nil, err
	}
	return cs, counter, nil
}

func openDS3231(src config.SourceConfig) (*core.ClockSource, io.Closer, error) {
	bus, err := i2c.Open(src.Device)
	if err != nil {
		return nil, nil, err
	}
	cs, err := core.NewClockSource(src.Name, rtc.NewCounterAt(bus, src.Address), src.FrequencyHz, src.Bits, src.MaxSeconds, src.Priority)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return cs, bus, nil
}
