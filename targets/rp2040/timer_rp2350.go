//go:build rp2350

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2350 TIMER0 block. Not at the RP2040 address.
const (
	timerBase     = 0x400B0000
	timerTimeRawH = timerBase + 0x24 // Raw timer high word, no latching
	timerTimeRawL = timerBase + 0x28 // Raw timer low word, no latching
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawL)))
)
