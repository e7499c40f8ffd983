//go:build rp2040

package main

import (
	_ "embed"
	"machine"
	"time"

	"shutterctl/config"
	"shutterctl/core"
	"shutterctl/targets/pio"
)

//go:embed config.json
var configJSON []byte

// Indicator state machine for the ARM blink LED
const (
	indicatorPIO = 1
	indicatorSM  = 0
)

var loopPanics uint32

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	core.SetDebugWriter(usbDebugWriter)

	cfg, cfgErr := config.LoadConfig(configJSON)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}
	core.SetDebugEnabled(cfg.Debug)
	if cfgErr != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("[CFG] embedded config rejected, using defaults: " + cfgErr.Error())
	}

	dispatcher, err := setup(cfg)
	if err != nil {
		fatal(err)
	}
	dispatcher.Start()

	interval := cfg.PollInterval()
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
				}
			}()

			dispatcher.Poll()
		}()

		time.Sleep(interval)
	}
}

// setup wires the board to the core and starts the tick and encoder
// interrupts
func setup(cfg *config.DeviceConfig) (*core.Dispatcher, error) {
	shutter, err := newPinOutput(cfg.Pins.Shutter, false)
	if err != nil {
		return nil, err
	}
	ledCW, err := newPinOutput(cfg.Pins.LedCW, false)
	if err != nil {
		return nil, err
	}
	ledCCW, err := newPinOutput(cfg.Pins.LedCCW, false)
	if err != nil {
		return nil, err
	}
	ledArm, err := newArmIndicator(cfg.Pins.LedArm)
	if err != nil {
		return nil, err
	}

	pull := buttonPull(cfg.ButtonsActiveLow)
	armButton, err := newPinInput(cfg.Pins.ArmButton, pull)
	if err != nil {
		return nil, err
	}
	modeButton, err := newPinInput(cfg.Pins.ModeButton, pull)
	if err != nil {
		return nil, err
	}
	selButton, err := newPinInput(cfg.Encoder.ButtonPin, pull)
	if err != nil {
		return nil, err
	}
	encA, err := newPinInput(cfg.Encoder.PinA, machine.PinInputPullup)
	if err != nil {
		return nil, err
	}
	encB, err := newPinInput(cfg.Encoder.PinB, machine.PinInputPullup)
	if err != nil {
		return nil, err
	}

	var batt *core.BatteryMonitor
	sensor, err := newADCBattery(cfg.Battery, cfg.TickHz)
	if err != nil {
		return nil, err
	}
	if sensor != nil {
		batt = core.NewBatteryMonitor(sensor, cfg.Calibration())
	}

	// The controller still runs without a panel
	var display core.Display
	panel, err := newOLED(cfg.Display)
	if err != nil {
		core.DebugPrintln("[OLED] " + err.Error())
	} else {
		display = panel
	}

	ctrl := core.NewController(cfg.InitialSession(), cfg.Prescale, shutter, ledArm)
	dec := core.NewQuadratureDecoder(cfg.Encoder.Detent)

	d := core.NewDispatcher(ctrl, dec, batt, display, core.DispatcherConfig{
		Arm:       armButton,
		Mode:      modeButton,
		Select:    selButton,
		ActiveLow: cfg.ButtonsActiveLow,
		Debounce:  cfg.DebounceSamples,
		LedCW:     ledCW,
		LedCCW:    ledCCW,

		TickHz:       cfg.TickHz,
		HealthPeriod: cfg.HealthPeriodTicks(),
	})
	d.SetPlatformHealth(func(h *core.Health) {
		h.LoopPanics = loopPanics
		h.LinkErrors = usbWriteFailures
	})
	if cfg.Telemetry.Enabled {
		d.SetTelemetry(core.NewTelemetry(USBWriteFrame, cfg.TelemetryPeriodTicks()))
	}

	if err := InitEncoder(encA, encB, dec, cfg.Encoder.Invert, cfg.SettleDelay()); err != nil {
		return nil, err
	}
	StartTick(ctrl, cfg.TickHz)
	return d, nil
}

// newArmIndicator drives the ARM LED from a PIO state machine, falling
// back to plain GPIO if the program cannot be loaded
func newArmIndicator(name string) (core.Output, error) {
	if name == "" {
		return nil, nil
	}
	n, err := config.PinNumber(name)
	if err != nil {
		return nil, err
	}
	ind := pio.NewIndicator(indicatorPIO, indicatorSM)
	if err := ind.Init(machine.Pin(n), false); err != nil {
		core.DebugPrintln("[PIO] " + err.Error())
		return newPinOutput(name, false)
	}
	return ind, nil
}

// fatal reports err and blinks the on-board LED forever
func fatal(err error) {
	core.SetDebugEnabled(true)
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		core.DebugPrintln("[FATAL] " + err.Error())
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
