package core

import "sync/atomic"

// Physical tick defaults. The original board ran an 8 MHz clock through a
// /256 prescaler and a compare value of 250, i.e. 125 interrupts a second.
const (
	DefaultTickHz   = 125
	DefaultPrescale = DefaultTickHz // physical ticks per logical (1 Hz) tick
)

var systemTicks uint32

// GetTicks returns the number of physical ticks since boot
func GetTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTicks sets the physical tick counter (for testing/hardware integration)
func SetTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// advanceTicks is called once per physical tick from the tick handler
func advanceTicks() uint32 {
	return atomic.AddUint32(&systemTicks, 1)
}

// TicksToMillis converts physical ticks to milliseconds for a given rate
func TicksToMillis(ticks uint32, tickHz uint16) uint32 {
	if tickHz == 0 {
		return 0
	}
	return uint32((uint64(ticks) * 1000) / uint64(tickHz))
}
