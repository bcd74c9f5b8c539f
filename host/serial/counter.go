package serial

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"bootclock/core"
)

// Wire format: the host writes RequestByte, the device answers with its
// counter as 8 little-endian bytes followed by the big-endian CRC16 of
// those 8 bytes.
const (
	RequestByte = 'T'
	counterSize = 8
	replySize   = counterSize + 2
)

var (
	ErrShortReply  = errors.New("serial: short counter reply")
	ErrBadChecksum = errors.New("serial: counter reply checksum mismatch")
)

// Counter is a core.Counter that polls a device for its counter value.
type Counter struct {
	port    Port
	last    uint64
	lastErr error
	buf     [replySize]byte

	// set after a failed exchange: the rest of a late reply may still
	// arrive, so the next query starts from an empty input buffer
	resync bool
}

// NewCounter returns a counter reading from port
func NewCounter(port Port) *Counter {
	return &Counter{port: port}
}

// Init drops stale input and checks the device answers a request
func (c *Counter) Init() error {
	if err := c.port.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	value, err := c.query()
	if err != nil {
		return err
	}
	c.last = value
	return nil
}

// Read returns the device counter. If the device does not answer the
// previous value is returned and the error is kept for LastError.
func (c *Counter) Read() uint64 {
	value, err := c.query()
	c.lastErr = err
	if err != nil {
		return c.last
	}
	c.last = value
	return value
}

// LastError returns the error of the most recent Read, if any
func (c *Counter) LastError() error {
	return c.lastErr
}

// Close closes the underlying port
func (c *Counter) Close() error {
	return c.port.Close()
}

func (c *Counter) query() (uint64, error) {
	if c.resync {
		if err := c.port.Flush(); err != nil {
			return 0, fmt.Errorf("flush: %w", err)
		}
		c.resync = false
	}

	value, err := c.exchange()
	if err != nil {
		_ = c.port.Flush()
		c.resync = true
	}
	return value, err
}

// exchange sends one request and decodes one reply
func (c *Counter) exchange() (uint64, error) {
	if _, err := c.port.Write([]byte{RequestByte}); err != nil {
		return 0, fmt.Errorf("request counter: %w", err)
	}
	if _, err := io.ReadFull(c.port, c.buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return 0, ErrShortReply
		}
		return 0, fmt.Errorf("read counter: %w", err)
	}
	want := binary.BigEndian.Uint16(c.buf[counterSize:])
	if crc16(c.buf[:counterSize]) != want {
		return 0, ErrBadChecksum
	}
	return binary.LittleEndian.Uint64(c.buf[:counterSize]), nil
}

// NewSource opens the device described by cfg and wraps it in a
// clocksource counting at hz with the given bit width.
func NewSource(name string, cfg *Config, hz uint32, width uint, maxSec uint32, priority int32) (*core.ClockSource, *Counter, error) {
	port, err := Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	counter := NewCounter(port)
	cs, err := core.NewClockSource(name, counter, hz, width, maxSec, priority)
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return cs, counter, nil
}
