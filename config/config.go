// Package config holds the device configuration: pin map, tick rate,
// battery calibration and power-on session. Configurations are JSON and
// unset values fall back to the defaults for a Raspberry Pi Pico board.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shutterctl/core"
)

var (
	ErrInvalidTickRate   = errors.New("invalid tick rate")
	ErrInvalidPrescale   = errors.New("invalid prescaler")
	ErrInvalidThresholds = errors.New("battery thresholds must be descending permille values")
	ErrInvalidSession    = errors.New("invalid power-on session")
	ErrInvalidPin        = errors.New("invalid pin name")
	ErrDuplicatePin      = errors.New("pin assigned twice")
)

// SessionConfig is the power-on trigger session
type SessionConfig struct {
	Delay    int32 // seconds before the first shot
	Duration int32 // seconds the shutter is held
	Pictures int32 // extra pictures after the first
	Interval int32 // seconds from one arm to the next
}

// BatteryConfig describes the battery sense input
type BatteryConfig struct {
	SensorPin       string    // ADC input, e.g. "ADC3"
	ChargePin       string    // charger status input, empty if not fitted
	ChargeActiveLow bool      // charger pulls the status line low while charging
	FullScale       uint16    // sample value at a full battery
	Thresholds      [4]uint16 // permille of FullScale for 4..1 bars
	NoiseMargin     uint16    // hysteresis in sample units
	Samples         uint8     // ADC reads averaged per sample
}

// EncoderConfig describes the rotary knob
type EncoderConfig struct {
	PinA         string
	PinB         string
	ButtonPin    string // push switch, cycles the decimal place
	Detent       bool   // one event per detent instead of per transition
	Invert       bool   // knob rests with both phases high
	SettleMicros uint16 // delay before sampling in the pin-change handler
}

// PinMap assigns the remaining outputs and buttons
type PinMap struct {
	Shutter    string
	LedCW      string // red, lit after a clockwise edit
	LedCCW     string // green, lit after a counter-clockwise edit
	LedArm     string // blue, blinks while armed
	ArmButton  string
	ModeButton string
}

// DisplayConfig describes the SSD1306 panel bus
type DisplayConfig struct {
	SDA       string
	SCL       string
	Address   uint16
	Frequency uint32 // I2C clock in Hz
}

// TelemetryConfig controls the status frames sent to a host
type TelemetryConfig struct {
	Enabled      bool
	PeriodMillis uint32
}

// DeviceConfig is the complete device configuration
type DeviceConfig struct {
	TickHz           uint16 // physical tick rate
	Prescale         uint16 // physical ticks per one-second logical tick
	PollMillis       uint16 // foreground loop period
	DebounceSamples  uint8  // stable polls required per button change
	ButtonsActiveLow bool

	Session   SessionConfig
	Battery   BatteryConfig
	Encoder   EncoderConfig
	Pins      PinMap
	Display   DisplayConfig
	Telemetry TelemetryConfig
	Debug     bool

	HealthMillis uint32 // period of the fault counter debug line
}

// LoadConfig parses a JSON configuration. Missing keys keep their
// defaults.
func LoadConfig(jsonData []byte) (*DeviceConfig, error) {
	config := DefaultConfig()
	// Derived values follow whatever the file sets for their base
	config.Prescale = 0
	config.Battery.NoiseMargin = 0

	err := json.Unmarshal(jsonData, config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults replaces zero values that would make the device unusable
func applyDefaults(config *DeviceConfig) {
	if config.TickHz == 0 {
		config.TickHz = core.DefaultTickHz
	}
	if config.Prescale == 0 {
		config.Prescale = config.TickHz // 1 Hz logical tick
	}
	if config.PollMillis == 0 {
		config.PollMillis = 10
	}
	if config.DebounceSamples == 0 {
		config.DebounceSamples = 3
	}

	if config.Session.Duration == 0 {
		config.Session.Duration = core.DefaultSession().TriggerDuration
	}

	cal := core.DefaultBatteryCalibration()
	if config.Battery.FullScale == 0 {
		config.Battery.FullScale = uint16(cal.FullScale)
	}
	if config.Battery.Thresholds == [4]uint16{} {
		config.Battery.Thresholds = cal.Thresholds
	}
	if config.Battery.NoiseMargin == 0 {
		config.Battery.NoiseMargin = config.Battery.FullScale / 128
	}
	if config.Battery.Samples == 0 {
		config.Battery.Samples = 1
	}

	if config.Display.Address == 0 {
		config.Display.Address = 0x3C
	}
	if config.Display.Frequency == 0 {
		config.Display.Frequency = 400000
	}

	if config.Telemetry.PeriodMillis == 0 {
		config.Telemetry.PeriodMillis = 1000
	}
	if config.HealthMillis == 0 {
		config.HealthMillis = 10000
	}
}

// DefaultConfig returns the configuration for the Pico reference board
func DefaultConfig() *DeviceConfig {
	return &DeviceConfig{
		TickHz:           core.DefaultTickHz,
		Prescale:         core.DefaultPrescale,
		PollMillis:       10,
		DebounceSamples:  3,
		ButtonsActiveLow: true,
		Session: SessionConfig{
			Duration: core.DefaultSession().TriggerDuration,
		},
		Battery: BatteryConfig{
			SensorPin:       "ADC3",
			ChargePin:       "gpio24",
			ChargeActiveLow: false,
			FullScale:       0xFFFF,
			Thresholds:      [4]uint16{940, 890, 840, 780},
			NoiseMargin:     0xFFFF / 128,
			Samples:         4,
		},
		Encoder: EncoderConfig{
			PinA:         "gpio6",
			PinB:         "gpio7",
			ButtonPin:    "gpio4",
			Detent:       true,
			SettleMicros: 0,
		},
		Pins: PinMap{
			Shutter:    "gpio15",
			LedCW:      "gpio16",
			LedCCW:     "gpio17",
			LedArm:     "gpio18",
			ArmButton:  "gpio2",
			ModeButton: "gpio3",
		},
		Display: DisplayConfig{
			SDA:       "gpio20",
			SCL:       "gpio21",
			Address:   0x3C,
			Frequency: 400000,
		},
		Telemetry: TelemetryConfig{
			Enabled:      true,
			PeriodMillis: 1000,
		},
		HealthMillis: 10000,
	}
}

// Validate checks the configuration for values the firmware cannot run with
func (c *DeviceConfig) Validate() error {
	if c.TickHz == 0 {
		return ErrInvalidTickRate
	}
	if c.Prescale == 0 {
		return ErrInvalidPrescale
	}

	prev := uint16(1001)
	for i, t := range c.Battery.Thresholds {
		if t >= prev {
			return fmt.Errorf("%w: threshold %d is %d", ErrInvalidThresholds, i, t)
		}
		prev = t
	}

	s := c.Session
	if s.Delay < 0 || s.Duration < 1 || s.Pictures < 0 || s.Interval < 0 ||
		s.Delay > core.MaxValue || s.Duration > core.MaxValue ||
		s.Pictures > core.MaxValue || s.Interval > core.MaxValue {
		return fmt.Errorf("%w: %+v", ErrInvalidSession, s)
	}

	used := make(map[uint8]string)
	for _, p := range c.pinAssignments() {
		if p.name == "" && p.optional {
			continue
		}
		n, err := PinNumber(p.name)
		if err != nil {
			return fmt.Errorf("%s: %w", p.role, err)
		}
		if other, ok := used[n]; ok {
			return fmt.Errorf("%w: %s and %s", ErrDuplicatePin, other, p.role)
		}
		used[n] = p.role
	}
	return nil
}

type pinAssignment struct {
	role     string
	name     string
	optional bool
}

func (c *DeviceConfig) pinAssignments() []pinAssignment {
	return []pinAssignment{
		{"shutter", c.Pins.Shutter, false},
		{"led_cw", c.Pins.LedCW, true},
		{"led_ccw", c.Pins.LedCCW, true},
		{"led_arm", c.Pins.LedArm, true},
		{"arm_button", c.Pins.ArmButton, false},
		{"mode_button", c.Pins.ModeButton, false},
		{"encoder_a", c.Encoder.PinA, false},
		{"encoder_b", c.Encoder.PinB, false},
		{"encoder_button", c.Encoder.ButtonPin, false},
		{"battery_sensor", c.Battery.SensorPin, true},
		{"charge", c.Battery.ChargePin, true},
		{"sda", c.Display.SDA, false},
		{"scl", c.Display.SCL, false},
	}
}

// RP2040 pin ranges
const (
	maxGPIO  = 29
	adcFirst = 26
	adcCount = 4
)

// PinNumber resolves "gpioN" to GPIO N and "ADCn" to the GPIO carrying
// ADC input n.
func PinNumber(name string) (uint8, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(lower, "gpio"):
		n, err := strconv.Atoi(lower[len("gpio"):])
		if err != nil || n < 0 || n > maxGPIO {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPin, name)
		}
		return uint8(n), nil
	case strings.HasPrefix(lower, "adc"):
		n, err := strconv.Atoi(lower[len("adc"):])
		if err != nil || n < 0 || n >= adcCount {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPin, name)
		}
		return uint8(adcFirst + n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPin, name)
}

// InitialSession returns the power-on session
func (c *DeviceConfig) InitialSession() core.Session {
	return core.Session{
		TimeToTrigger:   c.Session.Delay,
		TriggerDuration: c.Session.Duration,
		PictureCount:    c.Session.Pictures,
		Interval:        c.Session.Interval,
	}
}

// Calibration returns the battery bucketing constants
func (c *DeviceConfig) Calibration() core.BatteryCalibration {
	return core.BatteryCalibration{
		FullScale:   core.ADCValue(c.Battery.FullScale),
		Thresholds:  c.Battery.Thresholds,
		NoiseMargin: core.ADCValue(c.Battery.NoiseMargin),
	}
}

// PollInterval is the foreground loop period
func (c *DeviceConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMillis) * time.Millisecond
}

// SettleDelay is the encoder settle time
func (c *DeviceConfig) SettleDelay() time.Duration {
	return time.Duration(c.Encoder.SettleMicros) * time.Microsecond
}

// TelemetryPeriodTicks converts the telemetry period to physical ticks.
// Zero disables periodic frames.
func (c *DeviceConfig) TelemetryPeriodTicks() uint32 {
	if !c.Telemetry.Enabled {
		return 0
	}
	return uint32(uint64(c.Telemetry.PeriodMillis) * uint64(c.TickHz) / 1000)
}

// HealthPeriodTicks converts the health report period to physical ticks
func (c *DeviceConfig) HealthPeriodTicks() uint32 {
	return uint32(uint64(c.HealthMillis) * uint64(c.TickHz) / 1000)
}
