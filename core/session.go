package core

// Field names one of the four editable timing parameters
type Field uint8

const (
	FieldDuration Field = iota // trigger duration, seconds
	FieldDelay                 // time to trigger, seconds
	FieldPictures              // extra pictures after the first, 0 = single shot
	FieldInterval              // seconds from one arm to the next
	FieldCount
)

// Digit selection covers the five displayed decimal places
const (
	DigitCount = 5
	MaxDigit   = DigitCount - 1
	MaxValue   = 99999 // largest value the panel can show
)

// Next returns the following field in the fixed selection cycle
func (f Field) Next() Field {
	return (f + 1) % FieldCount
}

func (f Field) String() string {
	switch f {
	case FieldDuration:
		return "duration"
	case FieldDelay:
		return "delay"
	case FieldPictures:
		return "pictures"
	case FieldInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// Floor returns the lowest value the field may be edited down to.
// A zero-length trigger pulse is meaningless, so duration stops at 1.
func (f Field) Floor() int32 {
	if f == FieldDuration {
		return 1
	}
	return 0
}

// Session holds the four operator-editable timing parameters.
// While a sequence runs the controller counts these down in place and
// restores them from the snapshot taken at arming.
type Session struct {
	TimeToTrigger   int32
	TriggerDuration int32
	PictureCount    int32
	Interval        int32
}

// DefaultSession matches the power-on values of the device
func DefaultSession() Session {
	return Session{TriggerDuration: 10}
}

// Get returns the value of the named field
func (s *Session) Get(f Field) int32 {
	switch f {
	case FieldDuration:
		return s.TriggerDuration
	case FieldDelay:
		return s.TimeToTrigger
	case FieldPictures:
		return s.PictureCount
	case FieldInterval:
		return s.Interval
	}
	return 0
}

// Set stores v into the named field
func (s *Session) Set(f Field, v int32) {
	switch f {
	case FieldDuration:
		s.TriggerDuration = v
	case FieldDelay:
		s.TimeToTrigger = v
	case FieldPictures:
		s.PictureCount = v
	case FieldInterval:
		s.Interval = v
	}
}

// Valid reports whether the session may be armed: a repeating sequence
// needs an interval that covers the delay plus the trigger pulse.
func (s Session) Valid() bool {
	if s.PictureCount <= 0 {
		return true
	}
	return int64(s.Interval) >= int64(s.TriggerDuration)+int64(s.TimeToTrigger)
}

// Step applies one encoder detent to field f at the given decimal place:
// CW adds 10^digit, CCW subtracts it. The result saturates at the field
// floor and at MaxValue, so it always fits the displayed digits.
func (s *Session) Step(f Field, dir Direction, digit uint8) int32 {
	v := int64(s.Get(f))
	switch dir {
	case DirCW:
		v += int64(pow10(digit))
	case DirCCW:
		v -= int64(pow10(digit))
	default:
		return int32(v)
	}
	s.Set(f, clampField(f, v))
	return s.Get(f)
}

// Clamp forces every field into its floor..MaxValue range
func (s *Session) Clamp() {
	for f := Field(0); f < FieldCount; f++ {
		s.Set(f, clampField(f, int64(s.Get(f))))
	}
}

func pow10(digit uint8) int32 {
	if digit > MaxDigit {
		digit = MaxDigit
	}
	step := int32(1)
	for i := uint8(0); i < digit; i++ {
		step *= 10
	}
	return step
}

func clampField(f Field, v int64) int32 {
	if floor := int64(f.Floor()); v < floor {
		return int32(floor)
	}
	if v > MaxValue {
		return MaxValue
	}
	return int32(v)
}
