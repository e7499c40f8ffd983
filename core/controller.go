package core

import "sync/atomic"

// Mode is the trigger state machine state
type Mode uint8

const (
	StateStandby Mode = iota
	StateArm
	StateTriggered
	StateWaiting // waiting for the next picture
	StateEnd
)

func (m Mode) String() string {
	switch m {
	case StateStandby:
		return "STANDBY"
	case StateArm:
		return "ARM"
	case StateTriggered:
		return "TRIGGERED"
	case StateWaiting:
		return "WAITING"
	case StateEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is a consistent copy of everything the tick handler mutates
type Snapshot struct {
	Mode    Mode
	Session Session // working values, counted down while running
	Saved   Session // values captured at arming
	Blink   bool
	Shots   uint32 // shutter assertions in the current sequence
}

// Controller is the trigger timing state machine. Tick and PhysicalTick
// run in the periodic tick handler; Arm, Edit and Acquire run in the
// foreground loop and enter a critical section around every access.
type Controller struct {
	mode    Mode
	session Session
	saved   Session
	blink   bool
	shots   uint32

	prescale uint16
	count    uint16

	shutter Output
	blinker Output

	dirty        uint32 // set by the handler, drained by the foreground loop
	outputErrors uint32
}

// NewController creates a controller in STANDBY. prescale is the number of
// physical ticks per logical tick.
func NewController(initial Session, prescale uint16, shutter, blinker Output) *Controller {
	if prescale == 0 {
		prescale = 1
	}
	initial.Clamp()
	return &Controller{
		mode:     StateStandby,
		session:  initial,
		prescale: prescale,
		shutter:  outputOrNop(shutter),
		blinker:  outputOrNop(blinker),
	}
}

// Arm starts a sequence. It is only honored in STANDBY and silently
// refused when the interval is too short for the picture count.
func (c *Controller) Arm() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.mode != StateStandby {
		return false
	}
	if !c.session.Valid() {
		recordEvent(EvtRefused, c.session.Interval, c.session.TriggerDuration+c.session.TimeToTrigger)
		return false
	}

	c.saved = c.session
	c.blink = false
	c.count = 0
	c.shots = 0
	c.set(c.blinker, false)
	c.mode = StateArm
	recordEvent(EvtArm, c.session.TimeToTrigger, c.session.TriggerDuration)
	atomic.StoreUint32(&c.dirty, 1)
	return true
}

// Edit applies one encoder detent to field f. Edits are only accepted in
// STANDBY; the new value is returned.
func (c *Controller) Edit(f Field, dir Direction, digit uint8) (int32, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.mode != StateStandby {
		return 0, false
	}
	v := c.session.Step(f, dir, digit)
	recordEvent(EvtEdit, int32(f), v)
	return v, true
}

// PhysicalTick is called from the hardware timer interrupt. Every
// prescale calls it advances the state machine by one logical tick.
func (c *Controller) PhysicalTick() {
	enterHandler()
	defer exitHandler()

	advanceTicks()
	c.count++
	if c.count < c.prescale {
		return
	}
	c.count = 0
	c.step()
}

// Tick advances the state machine by one logical tick
func (c *Controller) Tick() {
	enterHandler()
	defer exitHandler()

	c.step()
}

func (c *Controller) step() {
	s := &c.session

	switch c.mode {
	case StateArm:
		c.blink = !c.blink
		c.set(c.blinker, c.blink)
		if s.TimeToTrigger != 0 {
			s.TimeToTrigger--
		}
		// The interval runs concurrently with the arm countdown
		if s.Interval != 0 {
			s.Interval--
		}
		if s.TimeToTrigger == 0 {
			c.fire()
		}

	case StateTriggered:
		if s.Interval != 0 {
			s.Interval--
		}
		s.TriggerDuration--
		if s.TriggerDuration <= 0 {
			// The pulse lasts exactly TriggerDuration ticks
			c.set(c.shutter, false)
			c.set(c.blinker, false)
			if s.PictureCount > 0 {
				s.PictureCount--
				c.mode = StateWaiting
				recordEvent(EvtRelease, s.PictureCount, 0)
			} else {
				c.mode = StateEnd
			}
		}

	case StateWaiting:
		c.set(c.shutter, false)
		c.set(c.blinker, false)
		if s.Interval > 0 {
			s.Interval--
		}
		if s.Interval > 0 {
			break
		}
		s.TimeToTrigger = c.saved.TimeToTrigger
		s.TriggerDuration = c.saved.TriggerDuration
		// Re-armed too, or every gap after the first would last one tick
		s.Interval = c.saved.Interval
		if s.TimeToTrigger == 0 {
			c.fire()
		} else {
			c.blink = false
			c.mode = StateArm
			recordEvent(EvtRearm, s.TimeToTrigger, 0)
		}

	case StateEnd:
		c.set(c.shutter, false)
		c.set(c.blinker, false)
		c.blink = false
		c.session = c.saved
		c.mode = StateStandby
		recordEvent(EvtEnd, 0, 0)

	default:
		return
	}

	atomic.StoreUint32(&c.dirty, 1)
}

// fire asserts the shutter release and enters TRIGGERED
func (c *Controller) fire() {
	c.set(c.shutter, true)
	c.set(c.blinker, true)
	c.shots++
	c.mode = StateTriggered
	recordEvent(EvtTrigger, int32(c.shots), 0)
}

func (c *Controller) set(o Output, on bool) {
	if err := o.Set(on); err != nil {
		c.outputErrors++
	}
}

// Acquire reads the whole controller state once and drains the
// display-dirty flag in the same critical section.
func (c *Controller) Acquire() (Snapshot, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	dirty := atomic.SwapUint32(&c.dirty, 0) != 0
	return c.snapshot(), dirty
}

// Snapshot reads the controller state without touching the dirty flag
func (c *Controller) Snapshot() Snapshot {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Mode:    c.mode,
		Session: c.session,
		Saved:   c.saved,
		Blink:   c.blink,
		Shots:   c.shots,
	}
}

// Mode returns the current state
func (c *Controller) Mode() Mode {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return c.mode
}

// OutputErrors returns how many output writes have failed
func (c *Controller) OutputErrors() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return c.outputErrors
}
