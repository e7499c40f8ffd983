package core

// Button turns a sampled push button into press edges. The debounced
// state only changes after debounce consecutive samples agree, and a
// press is reported once per press-release cycle.
type Button struct {
	in        Input
	activeLow bool
	debounce  uint8
	count     uint8
	pressed   bool // debounced state
}

// NewButton creates a debounced button. A debounce of zero is treated as
// one sample.
func NewButton(in Input, activeLow bool, debounce uint8) *Button {
	if debounce == 0 {
		debounce = 1
	}
	return &Button{in: in, activeLow: activeLow, debounce: debounce}
}

// Pressed samples the input once and reports a debounced press edge
func (b *Button) Pressed() bool {
	if b == nil || b.in == nil {
		return false
	}
	raw := b.in.Get() != b.activeLow
	if raw == b.pressed {
		b.count = 0
		return false
	}
	b.count++
	if b.count < b.debounce {
		return false
	}
	b.count = 0
	b.pressed = raw
	return raw
}

// IsDown returns the debounced state
func (b *Button) IsDown() bool {
	return b != nil && b.pressed
}

// DispatcherConfig wires the operator inputs and feedback LEDs
type DispatcherConfig struct {
	Arm       Input // starts a sequence
	Mode      Input // cycles the selected parameter
	Select    Input // encoder push button, cycles the decimal place
	ActiveLow bool
	Debounce  uint8 // stable samples required per button change

	LedCW  Output // lit after a clockwise edit
	LedCCW Output // lit after a counter-clockwise edit

	TickHz       uint16 // physical tick rate, for the health uptime
	HealthPeriod uint32 // physical ticks between health lines, 0 = off
}

// Dispatcher is the foreground loop body. It consumes decoder events and
// button presses, polls the battery, and redraws whatever changed.
type Dispatcher struct {
	ctrl     *Controller
	dec      *QuadratureDecoder
	batt     *BatteryMonitor
	renderer *Renderer

	arm, mode, sel *Button
	ledCW, ledCCW  Output

	field Field
	digit uint8

	rows      [FieldCount]bool // values needing a redraw
	telemetry *Telemetry

	ledErrors    uint32
	tickHz       uint16
	healthPeriod uint32
	healthLast   uint32
	platform     PlatformHealth
}

// NewDispatcher creates the foreground loop over the given collaborators.
// batt may be nil on boards without a battery sensor.
func NewDispatcher(ctrl *Controller, dec *QuadratureDecoder, batt *BatteryMonitor, display Display, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		ctrl:     ctrl,
		dec:      dec,
		batt:     batt,
		renderer: NewRenderer(display),
		arm:      NewButton(cfg.Arm, cfg.ActiveLow, cfg.Debounce),
		mode:     NewButton(cfg.Mode, cfg.ActiveLow, cfg.Debounce),
		sel:      NewButton(cfg.Select, cfg.ActiveLow, cfg.Debounce),
		ledCW:    outputOrNop(cfg.LedCW),
		ledCCW:   outputOrNop(cfg.LedCCW),

		tickHz:       cfg.TickHz,
		healthPeriod: cfg.HealthPeriod,
	}
}

// SetTelemetry attaches a status publisher
func (d *Dispatcher) SetTelemetry(t *Telemetry) {
	d.telemetry = t
}

// SetPlatformHealth attaches the target's own fault counters
func (d *Dispatcher) SetPlatformHealth(fn PlatformHealth) {
	d.platform = fn
}

// Start paints the initial screen
func (d *Dispatcher) Start() {
	if d.batt != nil {
		d.batt.Poll()
	}
	v := d.view(d.ctrl.Snapshot())
	d.renderer.Full(v)
	d.renderer.Flush()
	d.telemetry.Publish(v, true)
}

// Poll runs one foreground iteration
func (d *Dispatcher) Poll() {
	if dir := d.dec.Take(); dir != DirNone {
		if _, ok := d.ctrl.Edit(d.field, dir, d.digit); ok {
			d.rows[d.field] = true
			d.setLEDs(dir == DirCW, dir == DirCCW)
		}
	}

	if d.arm.Pressed() && d.ctrl.Arm() {
		d.setLEDs(false, false)
	}

	if d.mode.Pressed() {
		d.rows[d.field] = true
		d.field = d.field.Next()
		d.rows[d.field] = true
		recordEventLocked(EvtSelect, int32(d.field), int32(d.digit))
	}

	if d.sel.Pressed() {
		d.digit = (d.digit + 1) % DigitCount
		d.rows[d.field] = true
	}

	battery := d.batt != nil && d.batt.Poll()

	snap, dirty := d.ctrl.Acquire()
	v := d.view(snap)
	if dirty {
		d.renderer.Full(v)
		d.rows = [FieldCount]bool{}
	} else {
		for f := Field(0); f < FieldCount; f++ {
			if d.rows[f] {
				d.renderer.Field(v, f)
				d.rows[f] = false
			}
		}
		if battery {
			d.renderer.Battery(v.Battery, v.Charging)
		}
	}
	d.renderer.Flush()

	d.telemetry.Publish(v, dirty)
	FlushEvents()
	d.reportHealth()
}

// Health gathers the fault counters of every collaborator
func (d *Dispatcher) Health() Health {
	h := Health{
		Uptime:          TicksToMillis(GetTicks(), d.tickHz),
		Decoder:         d.dec.Stats(),
		OutputErrors:    d.ctrl.OutputErrors(),
		LedErrors:       d.ledErrors,
		RenderErrors:    d.renderer.RenderErrors(),
		TelemetryErrors: d.telemetry.Errors(),
	}
	if d.platform != nil {
		d.platform(&h)
	}
	return h
}

// reportHealth writes a health line once per period while debug output
// is on
func (d *Dispatcher) reportHealth() {
	if d.healthPeriod == 0 || !IsDebugEnabled() {
		return
	}
	now := GetTicks()
	if now-d.healthLast < d.healthPeriod {
		return
	}
	d.healthLast = now
	DebugPrintln(FormatHealth(d.Health()))
}

func (d *Dispatcher) setLEDs(cw, ccw bool) {
	if err := d.ledCW.Set(cw); err != nil {
		d.ledErrors++
	}
	if err := d.ledCCW.Set(ccw); err != nil {
		d.ledErrors++
	}
}

// Selection returns the parameter and decimal place being edited
func (d *Dispatcher) Selection() (Field, uint8) {
	return d.field, d.digit
}

// Renderer returns the renderer, mainly for its error counter
func (d *Dispatcher) Renderer() *Renderer {
	return d.renderer
}

func (d *Dispatcher) view(snap Snapshot) View {
	v := View{Snapshot: snap, Field: d.field, Digit: d.digit}
	if d.batt != nil {
		v.Battery = d.batt.Level()
		v.Charging = d.batt.Charging()
	}
	return v
}
