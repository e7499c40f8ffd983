package core

import (
	"math"
	"testing"
)

func TestSessionStepHundreds(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		start int32
		dir   Direction
		want  int32
	}{
		{"delay up", FieldDelay, 50, DirCW, 150},
		{"delay down", FieldDelay, 150, DirCCW, 50},
		{"delay clamps to zero", FieldDelay, 50, DirCCW, 0},
		{"duration clamps to one", FieldDuration, 50, DirCCW, 1},
		{"pictures up", FieldPictures, 0, DirCW, 100},
		{"interval down", FieldInterval, 1000, DirCCW, 900},
		{"no direction", FieldInterval, 1000, DirNone, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			s.Set(tt.field, tt.start)
			got := s.Step(tt.field, tt.dir, 2)
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
			if s.Get(tt.field) != got {
				t.Errorf("Step returned %d but stored %d", got, s.Get(tt.field))
			}
		})
	}
}

func TestSessionStepDigits(t *testing.T) {
	for digit := uint8(0); digit <= MaxDigit+1; digit++ {
		s := Session{}
		got := s.Step(FieldInterval, DirCW, digit)
		want := pow10(digit)
		if got != want {
			t.Errorf("digit %d: expected %d, got %d", digit, want, got)
		}
	}
	if pow10(MaxDigit+3) != 10000 {
		t.Errorf("out of range digit not limited to %d", MaxDigit)
	}
}

func TestSessionStepSaturatesAtDisplayMax(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		start int32
		digit uint8
	}{
		{"duration ones", FieldDuration, MaxValue, 0},
		{"interval ten thousands", FieldInterval, MaxValue - 5, MaxDigit},
		{"pictures thousands", FieldPictures, 99500, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			s.Set(tt.field, tt.start)
			if got := s.Step(tt.field, DirCW, tt.digit); got != MaxValue {
				t.Errorf("Expected %d, got %d", MaxValue, got)
			}
			if text := ValueText(s.Get(tt.field), true); text != ">99999" {
				t.Errorf("Expected >99999, got %q", text)
			}
			if got := s.Step(tt.field, DirCCW, 0); got != MaxValue-1 {
				t.Errorf("Expected %d after stepping back, got %d", MaxValue-1, got)
			}
		})
	}
}

func TestSessionClampCapsLargeValues(t *testing.T) {
	s := Session{TimeToTrigger: math.MaxInt32, TriggerDuration: 0, PictureCount: -3, Interval: 123456}
	s.Clamp()
	want := Session{TimeToTrigger: MaxValue, TriggerDuration: 1, PictureCount: 0, Interval: MaxValue}
	if s != want {
		t.Errorf("Expected %+v, got %+v", want, s)
	}
}

func TestSessionOnlyTouchesNamedField(t *testing.T) {
	s := Session{TimeToTrigger: 1, TriggerDuration: 2, PictureCount: 3, Interval: 4}
	s.Step(FieldPictures, DirCW, 0)
	want := Session{TimeToTrigger: 1, TriggerDuration: 2, PictureCount: 4, Interval: 4}
	if s != want {
		t.Errorf("Expected %+v, got %+v", want, s)
	}
}

func TestFieldCycle(t *testing.T) {
	f := FieldDuration
	want := []Field{FieldDelay, FieldPictures, FieldInterval, FieldDuration}
	for i, w := range want {
		f = f.Next()
		if f != w {
			t.Errorf("step %d: expected %v, got %v", i, w, f)
		}
	}
}

func TestSessionValid(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"single shot ignores interval", Session{TimeToTrigger: 10, TriggerDuration: 10}, true},
		{"interval covers delay and duration", Session{TimeToTrigger: 3, TriggerDuration: 2, PictureCount: 1, Interval: 5}, true},
		{"interval too short", Session{TimeToTrigger: 3, TriggerDuration: 2, PictureCount: 1, Interval: 4}, false},
		{"no overflow on large values", Session{TimeToTrigger: math.MaxInt32, TriggerDuration: math.MaxInt32, PictureCount: 1, Interval: math.MaxInt32}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Valid(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaultSession(t *testing.T) {
	s := DefaultSession()
	if s.TriggerDuration != 10 || s.TimeToTrigger != 0 || s.PictureCount != 0 || s.Interval != 0 {
		t.Errorf("unexpected default session %+v", s)
	}
}
