package core

import (
	"errors"
	"testing"
)

type textCall struct {
	text      string
	row, col  uint8
	highlight int
}

// MockDisplay records every WriteText call
type MockDisplay struct {
	calls []textCall
	err   error
}

func (m *MockDisplay) WriteText(text string, row, col uint8, highlight int) error {
	m.calls = append(m.calls, textCall{text, row, col, highlight})
	return m.err
}

// at returns the last text written at row/col
func (m *MockDisplay) at(row, col uint8) (textCall, bool) {
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].row == row && m.calls[i].col == col {
			return m.calls[i], true
		}
	}
	return textCall{}, false
}

func standbyView() View {
	return View{
		Snapshot: Snapshot{
			Mode:    StateStandby,
			Session: Session{TimeToTrigger: 3, TriggerDuration: 10, PictureCount: 2, Interval: 120},
		},
		Field:   FieldDelay,
		Digit:   2,
		Battery: 3,
	}
}

func TestRendererFullLayout(t *testing.T) {
	display := &MockDisplay{}
	NewRenderer(display).Full(standbyView())

	tests := []struct {
		row, col  uint8
		text      string
		highlight int
	}{
		{0, 0, "Shutter Speed:", NoHighlight},
		{0, BatteryColumn, "[||| ]", NoHighlight},
		{1, 0, "-00010", NoHighlight},
		{2, 0, "T- Trigger:", NoHighlight},
		{3, 0, ">00003", 3},
		{4, 0, "Timelapse:", NoHighlight},
		{5, 0, "# Pics:", NoHighlight},
		{5, 64, "Interv:", NoHighlight},
		{6, 0, "-00002", NoHighlight},
		{6, 64, "-00120", NoHighlight},
	}
	for _, tt := range tests {
		call, ok := display.at(tt.row, tt.col)
		if !ok {
			t.Errorf("nothing drawn at row %d col %d", tt.row, tt.col)
			continue
		}
		if call.text != tt.text || call.highlight != tt.highlight {
			t.Errorf("row %d col %d: expected %q/%d, got %q/%d",
				tt.row, tt.col, tt.text, tt.highlight, call.text, call.highlight)
		}
	}

	status, _ := display.at(StatusRow, 0)
	if len(status.text) != StatusWidth || status.text[:7] != "STANDBY" {
		t.Errorf("unexpected status line %q", status.text)
	}
}

func TestRendererHighlightOnlyInStandby(t *testing.T) {
	display := &MockDisplay{}
	v := standbyView()
	v.Mode = StateArm
	v.Shots = 1
	NewRenderer(display).Full(v)

	call, _ := display.at(3, 0)
	if call.text != ">00003" || call.highlight != NoHighlight {
		t.Errorf("Expected selected row without highlight, got %q/%d", call.text, call.highlight)
	}
	status, _ := display.at(StatusRow, 0)
	if status.text[:10] != "ARM shot 1" {
		t.Errorf("unexpected status line %q", status.text)
	}
}

func TestValueHighlight(t *testing.T) {
	for digit := uint8(0); digit <= MaxDigit; digit++ {
		idx := valueHighlight(digit)
		text := ValueText(12345, true)
		if want := byte('5' - digit); text[idx] != want {
			t.Errorf("digit %d: highlight on %q, expected %q", digit, text[idx], want)
		}
	}
}

func TestBatteryGlyph(t *testing.T) {
	tests := []struct {
		level    uint8
		charging bool
		want     string
	}{
		{0, false, "[    ]"},
		{1, false, "[|   ]"},
		{4, false, "[||||]"},
		{9, false, "[||||]"},
		{2, true, "[CHG]"},
	}
	for _, tt := range tests {
		if got := BatteryGlyph(tt.level, tt.charging); got != tt.want {
			t.Errorf("BatteryGlyph(%d, %v): expected %q, got %q", tt.level, tt.charging, tt.want, got)
		}
	}
}

func TestRendererCountsErrors(t *testing.T) {
	display := &MockDisplay{err: errors.New("nak")}
	r := NewRenderer(display)
	r.Battery(2, false)
	r.Field(standbyView(), FieldInterval)
	if r.RenderErrors() != 2 {
		t.Errorf("Expected 2 render errors, got %d", r.RenderErrors())
	}
}

// MockBufferedDisplay counts flushes
type MockBufferedDisplay struct {
	MockDisplay
	flushes int
}

func (m *MockBufferedDisplay) Flush() error {
	m.flushes++
	return nil
}

func TestRendererFlushOnlyAfterDrawing(t *testing.T) {
	display := &MockBufferedDisplay{}
	r := NewRenderer(display)

	r.Flush()
	if display.flushes != 0 {
		t.Errorf("flushed with nothing drawn")
	}
	r.Full(standbyView())
	r.Flush()
	r.Flush()
	if display.flushes != 1 {
		t.Errorf("Expected 1 flush, got %d", display.flushes)
	}
}
