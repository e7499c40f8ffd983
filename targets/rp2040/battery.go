//go:build rp2040

package main

import (
	"machine"

	"shutterctl/config"
	"shutterctl/core"
)

// adcBattery samples the battery divider with machine.ADC. It implements
// core.BatterySensor.
type adcBattery struct {
	adc     machine.ADC
	samples uint8

	charge          machine.Pin
	hasCharge       bool
	chargeActiveLow bool

	period   uint32 // physical ticks between samples
	lastTick uint32
	primed   bool
	last     core.ADCValue
}

// newADCBattery configures the battery sense input. It returns nil if no
// sensor pin is configured.
func newADCBattery(cfg config.BatteryConfig, tickHz uint16) (*adcBattery, error) {
	if cfg.SensorPin == "" {
		return nil, nil
	}
	n, err := config.PinNumber(cfg.SensorPin)
	if err != nil {
		return nil, err
	}

	machine.InitADC()
	b := &adcBattery{
		adc:     machine.ADC{Pin: machine.Pin(n)},
		samples: cfg.Samples,
		period:  uint32(tickHz) / 4,
	}
	b.adc.Configure(machine.ADCConfig{})
	if b.samples == 0 {
		b.samples = 1
	}

	if cfg.ChargePin != "" {
		pin, err := newPinInput(cfg.ChargePin, machine.PinInput)
		if err != nil {
			return nil, err
		}
		b.charge = pin
		b.hasCharge = true
		b.chargeActiveLow = cfg.ChargeActiveLow
	}
	return b, nil
}

// SampleReady takes a new averaged sample a few times a second
func (b *adcBattery) SampleReady() bool {
	now := core.GetTicks()
	if b.primed && now-b.lastTick < b.period {
		return false
	}
	b.primed = true
	b.lastTick = now

	var sum uint32
	for i := uint8(0); i < b.samples; i++ {
		sum += uint32(b.adc.Get())
	}
	b.last = core.ADCValue(sum / uint32(b.samples))
	return true
}

func (b *adcBattery) Raw() core.ADCValue {
	return b.last
}

func (b *adcBattery) ExternallyPowered() bool {
	if !b.hasCharge {
		return false
	}
	return b.charge.Get() != b.chargeActiveLow
}
