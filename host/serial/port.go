// Package serial reads a free-running counter from a device on a serial
// line, such as a microcontroller timer streamed over USB CDC.
package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the transport a Counter talks to. *serial.Port from
// github.com/tarm/serial implements it; tests use an in-memory port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards any unread input
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC devices ignore this)
	Baud int

	// Read timeout; zero blocks until the device answers
	ReadTimeout time.Duration
}

// DefaultConfig returns a default configuration for a counter device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Open opens the serial port described by cfg
func Open(cfg *Config) (Port, error) {
	if cfg == nil || cfg.Device == "" {
		return nil, fmt.Errorf("serial: device is required")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}
