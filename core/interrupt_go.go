//go:build !tinygo

package core

// State is the saved interrupt state on hosted Go. There are no
// interrupts to mask, so a critical section only tracks its nesting depth.
type State uintptr

// criticalDepth counts open critical sections
var criticalDepth int

// disableInterrupts opens a clock critical section.
func disableInterrupts() State {
	criticalDepth++
	return 0
}

// restoreInterrupts closes the critical section opened by disableInterrupts.
func restoreInterrupts(state State) {
	criticalDepth--
}
