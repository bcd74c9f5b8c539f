//go:build !linux

package i2c

import "errors"

// Bus is unavailable outside Linux
type Bus struct{}

// Open always fails: i2c-dev is Linux only
func Open(path string) (*Bus, error) {
	return nil, errors.New("i2c: " + path + ": i2c-dev is only supported on linux")
}

// Tx is never reached since Open fails
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return errors.New("i2c: unsupported platform")
}

// Close does nothing
func (b *Bus) Close() error {
	return nil
}
