//go:build rp2040

package main

import (
	"machine"

	"shutterctl/config"
	"shutterctl/core"
)

// pinOutput drives a GPIO directly. It implements core.Output.
type pinOutput struct {
	pin       machine.Pin
	activeLow bool
}

func (o pinOutput) Set(on bool) error {
	o.pin.Set(on != o.activeLow)
	return nil
}

// newPinOutput configures name as an output, de-asserted. An empty name
// means the line is not fitted and returns nil.
func newPinOutput(name string, activeLow bool) (core.Output, error) {
	if name == "" {
		return nil, nil
	}
	n, err := config.PinNumber(name)
	if err != nil {
		return nil, err
	}
	pin := machine.Pin(n)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	out := pinOutput{pin: pin, activeLow: activeLow}
	out.Set(false)
	return out, nil
}

// newPinInput configures name as an input with the given pull
func newPinInput(name string, mode machine.PinMode) (machine.Pin, error) {
	n, err := config.PinNumber(name)
	if err != nil {
		return machine.NoPin, err
	}
	pin := machine.Pin(n)
	pin.Configure(machine.PinConfig{Mode: mode})
	return pin, nil
}

// buttonPull picks the pull resistor that keeps a released button inactive
func buttonPull(activeLow bool) machine.PinMode {
	if activeLow {
		return machine.PinInputPullup
	}
	return machine.PinInputPulldown
}
