//go:build linux

package i2c

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ioctl request selecting the target address (linux/i2c-dev.h)
const i2cSlave = 0x0703

// Bus is an open /dev/i2c-N adapter
type Bus struct {
	fd   int
	addr uint16
	path string
}

// Open opens an i2c-dev adapter such as /dev/i2c-1
func Open(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Bus{fd: fd, addr: 0xffff, path: path}, nil
}

// Tx writes w to the device at addr, then reads len(r) bytes into r.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if b.addr != addr {
		if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
			return fmt.Errorf("%s: select address %#x: %w", b.path, addr, err)
		}
		b.addr = addr
	}

	if len(w) > 0 {
		if _, err := unix.Write(b.fd, w); err != nil {
			return fmt.Errorf("%s: write to %#x: %w", b.path, addr, err)
		}
	}
	if len(r) > 0 {
		n, err := unix.Read(b.fd, r)
		if err != nil {
			return fmt.Errorf("%s: read from %#x: %w", b.path, addr, err)
		}
		if n != len(r) {
			return fmt.Errorf("%s: short read from %#x: %d of %d bytes", b.path, addr, n, len(r))
		}
	}
	return nil
}

// Close closes the adapter
func (b *Bus) Close() error {
	return unix.Close(b.fd)
}
