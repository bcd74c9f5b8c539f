//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 TIMER block
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x24 // Raw timer high word, no latching
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word, no latching
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)
