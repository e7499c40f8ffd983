package core

// Number of battery bars shown on the display
const BatteryBars = 4

// BatteryCalibration holds the bucketing constants. Thresholds are in
// permille of FullScale, highest bucket first: a sample at or above
// Thresholds[0] shows 4 bars, below Thresholds[3] shows none.
type BatteryCalibration struct {
	FullScale   ADCValue
	Thresholds  [BatteryBars]uint16
	NoiseMargin ADCValue
}

// DefaultBatteryCalibration returns the calibration for a 16-bit sample
func DefaultBatteryCalibration() BatteryCalibration {
	return BatteryCalibration{
		FullScale:   0xFFFF,
		Thresholds:  [BatteryBars]uint16{940, 890, 840, 780},
		NoiseMargin: 0xFFFF / 128,
	}
}

// Bucket maps a raw sample to a bar level 0..BatteryBars
func (c BatteryCalibration) Bucket(raw ADCValue) uint8 {
	for i, permille := range c.Thresholds {
		limit := uint32(c.FullScale) * uint32(permille) / 1000
		if uint32(raw) >= limit {
			return uint8(BatteryBars - i)
		}
	}
	return 0
}

// BatteryMonitor converts raw samples into a hysteresis-filtered bar level
// and a charging flag. It runs in the foreground loop only.
type BatteryMonitor struct {
	sensor BatterySensor
	cal    BatteryCalibration

	level    uint8
	charging bool
	lastRaw  ADCValue // sample at the last accepted level change
	primed   bool
}

// NewBatteryMonitor creates a monitor reading from sensor
func NewBatteryMonitor(sensor BatterySensor, cal BatteryCalibration) *BatteryMonitor {
	return &BatteryMonitor{sensor: sensor, cal: cal}
}

// Poll runs one monitor step and reports whether the battery glyph needs
// to be redrawn.
func (m *BatteryMonitor) Poll() bool {
	if m.sensor == nil {
		return false
	}

	// Charging voltage says nothing about charge level: skip bucketing and
	// take the next real sample as-is once the charger is gone.
	if m.sensor.ExternallyPowered() {
		if m.charging {
			return false
		}
		m.charging = true
		m.primed = false
		return true
	}

	changed := false
	if m.charging {
		m.charging = false
		changed = true
	}

	if !m.sensor.SampleReady() {
		return changed
	}
	raw := m.sensor.Raw()
	level := m.cal.Bucket(raw)

	if !m.primed {
		m.primed = true
		m.level = level
		m.lastRaw = raw
		return true
	}

	if level == m.level || absDiff(raw, m.lastRaw) <= m.cal.NoiseMargin {
		return changed
	}
	m.level = level
	m.lastRaw = raw
	recordEventLocked(EvtBattery, int32(level), int32(raw))
	return true
}

// Level returns the current bar level
func (m *BatteryMonitor) Level() uint8 {
	return m.level
}

// Charging reports whether the charging glyph is shown
func (m *BatteryMonitor) Charging() bool {
	return m.charging
}

func absDiff(a, b ADCValue) ADCValue {
	if a > b {
		return a - b
	}
	return b - a
}
