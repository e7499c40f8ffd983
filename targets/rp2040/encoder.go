//go:build rp2040

package main

import (
	"machine"
	"time"

	"shutterctl/core"
)

var (
	encA, encB machine.Pin
	encDecoder *core.QuadratureDecoder
	encInvert  bool
	encSettle  uint32 // microseconds
)

// InitEncoder attaches the decoder to pin-change interrupts on both phases
func InitEncoder(a, b machine.Pin, dec *core.QuadratureDecoder, invert bool, settle time.Duration) error {
	encA, encB = a, b
	encDecoder = dec
	encInvert = invert
	encSettle = uint32(settle / time.Microsecond)

	if err := a.SetInterrupt(machine.PinToggle, encoderEdge); err != nil {
		return err
	}
	return b.SetInterrupt(machine.PinToggle, encoderEdge)
}

// encoderEdge runs in interrupt context for an edge on either phase
func encoderEdge(machine.Pin) {
	if encSettle > 0 {
		busyWaitMicros(encSettle)
	}

	var sample uint8
	if encA.Get() {
		sample |= 0b10
	}
	if encB.Get() {
		sample |= 0b01
	}
	if encInvert {
		sample ^= 0b11
	}
	encDecoder.Edge(sample)
}
