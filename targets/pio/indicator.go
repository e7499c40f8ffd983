//go:build rp2040

// Package pio drives indicator outputs from an RP2040 PIO state machine.
// The CPU only pushes a level word into the TX FIFO; the state machine
// owns the pin, so handler code never touches the GPIO registers.
package pio

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var ErrFIFOFull = errors.New("indicator FIFO full")

// buildIndicatorProgram creates a two instruction program: every word
// pulled from the TX FIFO sets the pin to its lowest bit.
func buildIndicatorProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1
		// .wrap
	}
}

const indicatorPIOOrigin = 0 // the indicator owns its PIO block

// Indicator is a PIO driven on/off output. It implements core.Output.
type Indicator struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	pin       machine.Pin
	activeLow bool
	offset    uint8
}

// NewIndicator creates an indicator on the given PIO block (0 or 1) and
// state machine (0-3)
func NewIndicator(pioNum, smNum uint8) *Indicator {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &Indicator{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and hands pin to the state machine
func (i *Indicator) Init(pin machine.Pin, activeLow bool) error {
	i.pin = pin
	i.activeLow = activeLow

	// The state machine must be claimed before use
	i.sm.TryClaim()

	program := buildIndicatorProgram()
	offset, err := i.pio.AddProgram(program, indicatorPIOOrigin)
	if err != nil {
		return err
	}
	i.offset = offset

	i.pin.Configure(machine.PinConfig{Mode: i.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(i.pin, 1)

	// Shift right so bit 0 reaches the pin, explicit PULL
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// The program blocks on PULL, speed only bounds latency
	cfg.SetClkDivIntFrac(1000, 0)

	i.sm.Init(offset, cfg)

	// Pin directions must be set after Init
	i.sm.SetPindirsConsecutive(i.pin, 1, true)
	i.sm.SetPinsConsecutive(i.pin, 1, activeLow)

	i.sm.SetEnabled(true)
	return nil
}

// Set queues the new level. It never blocks, so it is safe from the
// tick handler; a full FIFO drops the update and reports it.
func (i *Indicator) Set(on bool) error {
	if i.sm.IsTxFIFOFull() {
		return ErrFIFOFull
	}
	var word uint32
	if on != i.activeLow {
		word = 1
	}
	i.sm.TxPut(word)
	return nil
}
