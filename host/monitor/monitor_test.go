package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"shutterctl/protocol"
)

// MockPort serves a fixed byte stream, then reports read timeouts
type MockPort struct {
	data   *bytes.Reader
	err    error
	closed bool
}

func (m *MockPort) Read(b []byte) (int, error) {
	if m.data.Len() == 0 && m.err != nil {
		return 0, m.err
	}
	return m.data.Read(b)
}

func (m *MockPort) Write(b []byte) (int, error) { return len(b), nil }
func (m *MockPort) Flush() error                { return nil }
func (m *MockPort) Close() error {
	m.closed = true
	return nil
}

func statusFrames(t *testing.T, skip map[int]bool, msgs ...protocol.StatusMessage) []byte {
	t.Helper()
	out := protocol.NewScratchOutput()
	tr := protocol.NewTransport(out)
	var stream []byte
	for i, msg := range msgs {
		out.Reset()
		if err := protocol.EncodeStatusFrame(tr, msg); err != nil {
			t.Fatalf("EncodeStatusFrame failed: %v", err)
		}
		if !skip[i] {
			stream = append(stream, out.Result()...)
		}
	}
	return stream
}

func TestMonitorRun(t *testing.T) {
	stream := append([]byte("boot text\r\n\x7e"), statusFrames(t, nil,
		protocol.StatusMessage{Mode: 0, Duration: 10},
		protocol.StatusMessage{Mode: 1, Duration: 10, Delay: 3},
	)...)
	port := &MockPort{data: bytes.NewReader(stream), err: io.EOF}
	m := New(port)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []Status
	err := m.Run(ctx, func(s Status) {
		got = append(got, s)
		if len(got) == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(got))
	}
	if got[1].Mode != 1 || got[1].Delay != 3 || got[1].Sequence != 1 {
		t.Errorf("unexpected second status %+v", got[1])
	}
	if m.Stats().Scanner.Dropped == 0 {
		t.Errorf("boot text not counted as dropped bytes")
	}

	m.Close()
	if !port.closed {
		t.Errorf("Close did not close the port")
	}
}

func TestMonitorRunReadError(t *testing.T) {
	port := &MockPort{data: bytes.NewReader(nil), err: errors.New("device unplugged")}
	err := New(port).Run(context.Background(), nil)
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("Expected wrapped read error, got %v", err)
	}
}

func TestMonitorCountsLostFrames(t *testing.T) {
	msgs := make([]protocol.StatusMessage, 6)
	stream := statusFrames(t, map[int]bool{2: true, 3: true}, msgs...)

	m := New(&MockPort{data: bytes.NewReader(nil)})
	count := 0
	m.Feed(stream, func(Status) { count++ })

	stats := m.Stats()
	if count != 4 || stats.Frames != 4 {
		t.Errorf("Expected 4 frames, got %d", count)
	}
	if stats.Lost != 2 {
		t.Errorf("Expected 2 lost frames, got %d", stats.Lost)
	}
}

func TestMonitorSequenceWrap(t *testing.T) {
	msgs := make([]protocol.StatusMessage, protocol.MessageSeqMask+3)
	m := New(&MockPort{data: bytes.NewReader(nil)})
	m.Feed(statusFrames(t, nil, msgs...), nil)

	if stats := m.Stats(); stats.Lost != 0 || stats.Frames != uint32(len(msgs)) {
		t.Errorf("unexpected stats across sequence wrap %+v", stats)
	}
}

func TestFormat(t *testing.T) {
	s := Status{StatusMessage: protocol.StatusMessage{
		Mode: 2, Delay: 0, Duration: 5, Pictures: 1, Interval: 30,
		Field: 3, Digit: 1, Battery: 2, Shots: 1, Uptime: 1250,
	}}
	want := "TRIGGERED dur=00005 delay=00000 pics=00001 interv=00030 sel=interval/1 batt=[||  ] shots=1 up=1250"
	if got := Format(s); got != want {
		t.Errorf("Expected\n%q\ngot\n%q", want, got)
	}
}
