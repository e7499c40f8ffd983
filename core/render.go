package core

// Display geometry for the 128x64 panel with an 8 pixel tall font
const (
	DisplayColumns = 128
	DisplayRows    = 8
	CharWidth      = 6
	BatteryColumn  = 104
	StatusRow      = 7
	StatusWidth    = DisplayColumns / CharWidth
)

// Value markers in front of each parameter
const (
	markerSelected = '>'
	markerIdle     = '-'
)

type textSlot struct {
	row, col uint8
}

// fieldLayout places each parameter value on the panel
var fieldLayout = [FieldCount]textSlot{
	FieldDuration: {row: 1, col: 0},
	FieldDelay:    {row: 3, col: 0},
	FieldPictures: {row: 6, col: 0},
	FieldInterval: {row: 6, col: 64},
}

var labelLayout = []struct {
	text string
	slot textSlot
}{
	{"Shutter Speed:", textSlot{0, 0}},
	{"T- Trigger:", textSlot{2, 0}},
	{"Timelapse:", textSlot{4, 0}},
	{"# Pics:", textSlot{5, 0}},
	{"Interv:", textSlot{5, 64}},
}

// View is everything the renderer draws in one pass
type View struct {
	Snapshot
	Field    Field // selected parameter
	Digit    uint8 // selected decimal place, 0 = least significant
	Battery  uint8
	Charging bool
}

// Renderer draws the controller state through a Display. Write failures
// are counted and otherwise ignored; the next full render repaints.
type Renderer struct {
	display Display
	errors  uint32
	pending bool // drawn but not flushed
}

// NewRenderer creates a renderer for display
func NewRenderer(display Display) *Renderer {
	return &Renderer{display: display}
}

// Full repaints every label, value, the battery glyph and the status line
func (r *Renderer) Full(v View) {
	for _, l := range labelLayout {
		r.write(l.text, l.slot.row, l.slot.col, NoHighlight)
	}
	for f := Field(0); f < FieldCount; f++ {
		r.Field(v, f)
	}
	r.Battery(v.Battery, v.Charging)
	r.Status(v)
}

// Field redraws the value of one parameter
func (r *Renderer) Field(v View, f Field) {
	if f >= FieldCount {
		return
	}
	slot := fieldLayout[f]
	highlight := NoHighlight
	if f == v.Field && v.Mode == StateStandby {
		highlight = valueHighlight(v.Digit)
	}
	r.write(ValueText(v.Session.Get(f), f == v.Field), slot.row, slot.col, highlight)
}

// Battery redraws the battery glyph
func (r *Renderer) Battery(level uint8, charging bool) {
	r.write(BatteryGlyph(level, charging), 0, BatteryColumn, NoHighlight)
}

// Status redraws the bottom line
func (r *Renderer) Status(v View) {
	text := v.Mode.String()
	if v.Mode != StateStandby {
		text += " shot " + itoa(int(v.Shots))
	}
	r.write(padRight(text, StatusWidth), StatusRow, 0, NoHighlight)
}

// Flush pushes buffered drawing to the panel if the display buffers
func (r *Renderer) Flush() {
	if !r.pending {
		return
	}
	r.pending = false
	if f, ok := r.display.(Flusher); ok {
		if err := f.Flush(); err != nil {
			r.errors++
		}
	}
}

// RenderErrors returns the number of failed display writes
func (r *Renderer) RenderErrors() uint32 {
	return r.errors
}

func (r *Renderer) write(text string, row, col uint8, highlight int) {
	if r.display == nil {
		return
	}
	r.pending = true
	if err := r.display.WriteText(text, row, col, highlight); err != nil {
		r.errors++
	}
}

// ValueText is the marker followed by the value as DigitCount digits
func ValueText(value int32, selected bool) string {
	marker := byte(markerIdle)
	if selected {
		marker = markerSelected
	}
	return string(marker) + FormatField(value, DigitCount)
}

// valueHighlight maps a decimal place to its character index in ValueText
func valueHighlight(digit uint8) int {
	if digit > MaxDigit {
		digit = MaxDigit
	}
	return DigitCount - int(digit)
}

// BatteryGlyph renders the bar level as "[||  ]", or "[CHG]" on charge
func BatteryGlyph(level uint8, charging bool) string {
	if charging {
		return "[CHG]"
	}
	if level > BatteryBars {
		level = BatteryBars
	}
	var buf [BatteryBars + 2]byte
	buf[0] = '['
	for i := 0; i < BatteryBars; i++ {
		if i < int(level) {
			buf[i+1] = '|'
		} else {
			buf[i+1] = ' '
		}
	}
	buf[BatteryBars+1] = ']'
	return string(buf[:])
}
