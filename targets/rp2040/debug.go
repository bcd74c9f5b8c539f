//go:build rp2040 || rp2350

package main

import (
	"machine"

	"bootclock/core"
)

var debugReady bool

// InitDebug configures USB CDC serial and routes clock output to it
func InitDebug() {
	// machine.Serial is USB CDC on RP2040/RP2350
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		return
	}
	debugReady = true

	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
}

// DebugPrintln writes a line to the debug serial port
func DebugPrintln(s string) {
	if !debugReady {
		return
	}
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

func utoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
