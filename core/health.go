package core

// Health collects the fault counters for post-mortem on the debug link
type Health struct {
	Uptime          uint32 // milliseconds
	Decoder         DecoderStats
	OutputErrors    uint32 // shutter and ARM indicator writes
	LedErrors       uint32 // CW/CCW feedback LED writes
	RenderErrors    uint32
	TelemetryErrors uint32
	LoopPanics      uint32
	LinkErrors      uint32
}

// PlatformHealth fills in counters kept outside core, such as recovered
// panics and USB write failures
type PlatformHealth func(h *Health)

// FormatHealth renders h as one debug line
func FormatHealth(h Health) string {
	return "[HEALTH] up=" + itoa(int(h.Uptime)) + "ms" +
		" enc=" + itoa(int(h.Decoder.Events)) + "/" + itoa(int(h.Decoder.Dropped)) + "/" + itoa(int(h.Decoder.Noise)) +
		" out=" + itoa(int(h.OutputErrors)) +
		" led=" + itoa(int(h.LedErrors)) +
		" lcd=" + itoa(int(h.RenderErrors)) +
		" tlm=" + itoa(int(h.TelemetryErrors)) +
		" panic=" + itoa(int(h.LoopPanics)) +
		" link=" + itoa(int(h.LinkErrors))
}
