package core

// ADCValue is the raw battery sample in sensor-native units.
// Convention here: 16-bit value, even if the underlying hardware is 12 bits.
type ADCValue uint16

// BatterySensor is the battery-sample collaborator. The core only consumes
// it and never drives the sampling hardware.
type BatterySensor interface {
	// SampleReady reports whether a fresh sample is available
	SampleReady() bool

	// Raw returns the most recent sample
	Raw() ADCValue

	// ExternallyPowered reports the charging / external supply signal
	ExternallyPowered() bool
}
