//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so that installing a clocksource is
// atomic with respect to any handler that reads the clock.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
