//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// enterHandler is a no-op: a running handler cannot be preempted by the
// foreground loop on the MCU.
func enterHandler() {}

// exitHandler is a no-op, see enterHandler.
func exitHandler() {}
