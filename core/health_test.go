package core

import "testing"

func TestFormatHealth(t *testing.T) {
	h := Health{
		Uptime:          1500,
		Decoder:         DecoderStats{Events: 12, Dropped: 3, Noise: 1},
		OutputErrors:    2,
		RenderErrors:    4,
		TelemetryErrors: 5,
		LinkErrors:      7,
	}
	want := "[HEALTH] up=1500ms enc=12/3/1 out=2 led=0 lcd=4 tlm=5 panic=0 link=7"
	if got := FormatHealth(h); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTelemetryCountersNilSafe(t *testing.T) {
	var tel *Telemetry
	if tel.Sent() != 0 || tel.Errors() != 0 {
		t.Errorf("Expected zero counters from a nil publisher")
	}
}
