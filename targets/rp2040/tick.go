//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"

	"shutterctl/core"
)

// The TinyGo runtime uses ALARM0 for sleeping; the tick owns ALARM3.
var (
	tickCtrl     *core.Controller
	tickPeriodUs uint32
	tickNext     uint32
)

// StartTick starts the physical tick at hz, driving ctrl from the
// TIMER_IRQ_3 handler. The alarm is re-armed from the previous deadline
// so the rate does not drift with handler latency.
func StartTick(ctrl *core.Controller, hz uint16) {
	if hz == 0 {
		hz = core.DefaultTickHz
	}
	tickCtrl = ctrl
	tickPeriodUs = 1000000 / uint32(hz)

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_3, tickHandler)
	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_3)
	tickNext = rp.TIMER.TIMERAWL.Get() + tickPeriodUs
	rp.TIMER.ALARM3.Set(tickNext)
	intr.Enable()
}

func tickHandler(intr interrupt.Interrupt) {
	// Write one to clear
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_3)
	tickNext += tickPeriodUs
	rp.TIMER.ALARM3.Set(tickNext)

	tickCtrl.PhysicalTick()
}

// busyWaitMicros spins on the free running timer. Used inside handlers
// where sleeping is not possible.
func busyWaitMicros(us uint32) {
	start := rp.TIMER.TIMERAWL.Get()
	for rp.TIMER.TIMERAWL.Get()-start < us {
	}
}
