package core

import "shutterctl/protocol"

// TelemetryWriter sends one encoded frame to the host link
type TelemetryWriter func(frame []byte) error

// Telemetry publishes framed status messages. Frames are built in a fixed
// scratch buffer so publishing does not allocate on the device.
type Telemetry struct {
	write     TelemetryWriter
	out       *protocol.ScratchOutput
	transport *protocol.Transport

	period uint32 // physical ticks between unforced frames
	last   uint32
	sent   uint32
	errors uint32
}

// NewTelemetry creates a publisher. period is in physical ticks; zero
// publishes only forced frames.
func NewTelemetry(write TelemetryWriter, period uint32) *Telemetry {
	out := protocol.NewScratchOutput()
	return &Telemetry{
		write:     write,
		out:       out,
		transport: protocol.NewTransport(out),
		period:    period,
	}
}

// StatusFromView builds the wire status for v
func StatusFromView(v View) protocol.StatusMessage {
	return protocol.StatusMessage{
		Mode:     uint8(v.Mode),
		Delay:    v.Session.TimeToTrigger,
		Duration: v.Session.TriggerDuration,
		Pictures: v.Session.PictureCount,
		Interval: v.Session.Interval,
		Field:    uint8(v.Field),
		Digit:    v.Digit,
		Battery:  v.Battery,
		Charging: v.Charging,
		Shots:    v.Shots,
		Uptime:   GetTicks(),
	}
}

// Publish sends a status frame if forced or if the period has elapsed
func (t *Telemetry) Publish(v View, force bool) error {
	if t == nil || t.write == nil {
		return nil
	}
	now := GetTicks()
	if !force && (t.period == 0 || now-t.last < t.period) {
		return nil
	}
	t.last = now

	// A leading sync byte resynchronizes the host after debug text
	t.out.Reset()
	t.out.Output([]byte{protocol.MessageValueSync})
	if err := protocol.EncodeStatusFrame(t.transport, StatusFromView(v)); err != nil {
		t.errors++
		return err
	}
	if err := t.write(t.out.Result()); err != nil {
		t.errors++
		return err
	}
	t.sent++
	return nil
}

// Sent returns how many frames were written successfully
func (t *Telemetry) Sent() uint32 {
	if t == nil {
		return 0
	}
	return t.sent
}

// Errors returns how many frames failed to encode or write
func (t *Telemetry) Errors() uint32 {
	if t == nil {
		return 0
	}
	return t.errors
}
