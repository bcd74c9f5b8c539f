// Package i2c provides a drivers.I2C bus on top of the Linux i2c-dev
// interface, so TinyGo device drivers can run against a host adapter.
package i2c
