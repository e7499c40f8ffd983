// Package monitor reads status telemetry from a running controller
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"shutterctl/core"
	"shutterctl/host/serial"
	"shutterctl/protocol"
)

// Status is one decoded status frame
type Status struct {
	protocol.StatusMessage
	Sequence uint8
	Received time.Time
}

// Stats counts frames seen by the monitor
type Stats struct {
	Frames       uint32
	Lost         uint32 // frames missing from the sequence
	DecodeErrors uint32
	Scanner      protocol.ScannerStats
}

// Monitor turns the raw byte stream from the controller into status
// reports. Debug text sharing the link is skipped by the frame scanner.
type Monitor struct {
	port    io.ReadCloser
	scanner *protocol.Scanner

	lastSeq uint8
	haveSeq bool
	stats   Stats

	now func() time.Time
}

// New creates a monitor reading from port
func New(port io.ReadCloser) *Monitor {
	return &Monitor{
		port:    port,
		scanner: protocol.NewScanner(),
		now:     time.Now,
	}
}

// Connect opens the serial device and discards anything already buffered
func Connect(cfg *serial.Config) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return New(port), nil
}

// Run reads until ctx is cancelled or the port fails, calling handle for
// every status frame. A read timeout (io.EOF with no data) is not an error.
func (m *Monitor) Run(ctx context.Context, handle func(Status)) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := m.port.Read(buf)
		if n > 0 {
			m.Feed(buf[:n], handle)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read telemetry: %w", err)
		}
	}
}

// Feed processes raw bytes from the link
func (m *Monitor) Feed(data []byte, handle func(Status)) {
	m.scanner.Feed(data, func(f protocol.Frame) {
		msg, err := protocol.DecodeStatus(f.Payload)
		if err != nil {
			m.stats.DecodeErrors++
			return
		}

		seq := f.Sequence & protocol.MessageSeqMask
		if m.haveSeq {
			expected := (m.lastSeq + 1) & protocol.MessageSeqMask
			m.stats.Lost += uint32((seq - expected) & protocol.MessageSeqMask)
		}
		m.lastSeq = seq
		m.haveSeq = true
		m.stats.Frames++

		if handle != nil {
			handle(Status{StatusMessage: msg, Sequence: seq, Received: m.now()})
		}
	})
}

// Stats returns the monitor counters
func (m *Monitor) Stats() Stats {
	s := m.stats
	s.Scanner = m.scanner.Stats()
	return s
}

// Close closes the underlying port
func (m *Monitor) Close() error {
	return m.port.Close()
}

// Format renders a status as one line, matching the panel wording
func Format(s Status) string {
	var b strings.Builder
	b.WriteString(core.Mode(s.Mode).String())
	b.WriteString(" dur=")
	b.WriteString(core.FormatField(s.Duration, core.DigitCount))
	b.WriteString(" delay=")
	b.WriteString(core.FormatField(s.Delay, core.DigitCount))
	b.WriteString(" pics=")
	b.WriteString(core.FormatField(s.Pictures, core.DigitCount))
	b.WriteString(" interv=")
	b.WriteString(core.FormatField(s.Interval, core.DigitCount))
	b.WriteString(" sel=")
	b.WriteString(core.Field(s.Field).String())
	b.WriteString("/")
	b.WriteString(strconv.Itoa(int(s.Digit)))
	b.WriteString(" batt=")
	b.WriteString(core.BatteryGlyph(s.Battery, s.Charging))
	b.WriteString(" shots=")
	b.WriteString(strconv.FormatUint(uint64(s.Shots), 10))
	b.WriteString(" up=")
	b.WriteString(strconv.FormatUint(uint64(s.Uptime), 10))
	return b.String()
}
