package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a state change for later output from the foreground loop.
// Handlers must not print, so they only append here.
type Event struct {
	Kind   uint8  // Event kind code
	Clock  uint32 // Physical tick counter at the event
	Value1 int32  // Context-dependent value
	Value2 int32  // Context-dependent value
}

// Event kind codes
const (
	EvtArm     = 1 // sequence armed; v1=delay v2=duration
	EvtRefused = 2 // arm refused; v1=interval v2=delay+duration
	EvtTrigger = 3 // shutter asserted; v1=shot number
	EvtRelease = 4 // shutter released, waiting; v1=pictures left
	EvtRearm   = 5 // next picture armed; v1=delay
	EvtEnd     = 6 // sequence complete, session restored
	EvtEdit    = 7 // field edited; v1=field v2=new value
	EvtSelect  = 8 // field selected; v1=field v2=digit
	EvtBattery = 9 // battery level accepted; v1=bars v2=raw
)

const (
	EventRingSize = 32 // Keep last 32 events
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing    [EventRingSize]Event
	eventHead    uint32 // total events written
	eventFlushed uint32 // total events already flushed
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// recordEvent appends to the ring. Callers must already be inside a
// handler or a critical section.
func recordEvent(kind uint8, v1, v2 int32) {
	eventRing[eventHead%EventRingSize] = Event{
		Kind:   kind,
		Clock:  GetTicks(),
		Value1: v1,
		Value2: v2,
	}
	eventHead++
}

// recordEventLocked appends to the ring from the foreground loop
func recordEventLocked(kind uint8, v1, v2 int32) {
	state := disableInterrupts()
	recordEvent(kind, v1, v2)
	restoreInterrupts(state)
}

// TakeEvents copies the events not yet flushed into buf, oldest first,
// and returns how many were copied. Events overwritten before a flush are
// lost; the second return value counts them.
func TakeEvents(buf []Event) (int, uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	pending := eventHead - eventFlushed
	var lost uint32
	if pending > EventRingSize {
		lost = pending - EventRingSize
		eventFlushed = eventHead - EventRingSize
	}
	n := 0
	for n < len(buf) && eventFlushed != eventHead {
		buf[n] = eventRing[eventFlushed%EventRingSize]
		eventFlushed++
		n++
	}
	return n, lost
}

// FlushEvents writes all pending events to the debug writer. It runs in
// the foreground loop, never in a handler.
func FlushEvents() {
	var buf [EventRingSize]Event
	n, lost := TakeEvents(buf[:])
	if !debugEnabled || debugPrintln == nil {
		return
	}
	if lost > 0 {
		debugPrintln("[EVT] lost=" + itoa(int(lost)))
	}
	for i := 0; i < n; i++ {
		debugPrintln(FormatEvent(buf[i]))
	}
}

// FormatEvent renders one event as a debug line
func FormatEvent(evt Event) string {
	clock := " t=" + itoa(int(evt.Clock))
	switch evt.Kind {
	case EvtArm:
		return "[EVT] ARM delay=" + itoa(int(evt.Value1)) + " dur=" + itoa(int(evt.Value2)) + clock
	case EvtRefused:
		return "[EVT] REFUSED interval=" + itoa(int(evt.Value1)) + " need=" + itoa(int(evt.Value2)) + clock
	case EvtTrigger:
		return "[EVT] TRIGGER shot=" + itoa(int(evt.Value1)) + clock
	case EvtRelease:
		return "[EVT] RELEASE left=" + itoa(int(evt.Value1)) + clock
	case EvtRearm:
		return "[EVT] REARM delay=" + itoa(int(evt.Value1)) + clock
	case EvtEnd:
		return "[EVT] END" + clock
	case EvtEdit:
		return "[EVT] EDIT " + Field(evt.Value1).String() + "=" + itoa(int(evt.Value2)) + clock
	case EvtSelect:
		return "[EVT] SELECT " + Field(evt.Value1).String() + " digit=" + itoa(int(evt.Value2)) + clock
	case EvtBattery:
		return "[EVT] BATTERY bars=" + itoa(int(evt.Value1)) + " raw=" + itoa(int(evt.Value2)) + clock
	default:
		return "[EVT] UNKNOWN kind=" + itoa(int(evt.Kind)) + clock
	}
}

// ClearEvents drops all recorded events
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventHead = 0
	eventFlushed = 0
	restoreInterrupts(state)
}
