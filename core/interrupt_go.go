//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// irqMu stands in for the interrupt mask on regular Go, so handlers driven
// from goroutines (tests, host simulation) are excluded the same way an
// interrupt is excluded by a masked critical section on the MCU.
var irqMu sync.Mutex

// disableInterrupts enters a critical section shared with the handlers
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	irqMu.Unlock()
}

// enterHandler marks the start of a tick or pin-change handler
func enterHandler() {
	irqMu.Lock()
}

// exitHandler marks the end of a tick or pin-change handler
func exitHandler() {
	irqMu.Unlock()
}
