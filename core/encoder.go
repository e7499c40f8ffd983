package core

import "sync/atomic"

// Direction is a decoded rotation event
type Direction uint32

const (
	DirNone Direction = iota
	DirCW
	DirCCW
)

func (d Direction) String() string {
	switch d {
	case DirCW:
		return "CW"
	case DirCCW:
		return "CCW"
	default:
		return "none"
	}
}

// Transition codes are 0bPPCC: previous phase pair in the high bits,
// current pair in the low bits, each pair being (A<<1)|B.
var fullTable = [16]Direction{
	0b0001: DirCW,
	0b0111: DirCW,
	0b1110: DirCW,
	0b1000: DirCW,
	0b0010: DirCCW,
	0b1011: DirCCW,
	0b1101: DirCCW,
	0b0100: DirCCW,
}

// detentTable only resolves the transition that lands back on the rest
// position, giving one event per detent regardless of polling.
var detentTable = [16]Direction{
	0b1000: DirCW,
	0b0100: DirCCW,
}

// QuadratureDecoder turns phase samples from the rotary knob into
// direction events. Edge runs in pin-change handler context; Take runs in
// the foreground loop. The pending cell has exactly one writer and one
// reader and only the reader clears it.
type QuadratureDecoder struct {
	table *[16]Direction
	pvcv  uint8 // handler private

	pending uint32 // Direction

	events  uint32
	dropped uint32
	noise   uint32
}

// NewQuadratureDecoder creates a decoder. With detent set, the reduced
// table is used.
func NewQuadratureDecoder(detent bool) *QuadratureDecoder {
	d := &QuadratureDecoder{table: &fullTable}
	if detent {
		d.table = &detentTable
	}
	return d
}

// Edge folds one 2-bit phase sample (A in bit 1, B in bit 0). While a
// direction is pending the sample is dropped, so a bouncing contact cannot
// flip the event before the foreground loop has consumed it. A dropped
// sample still becomes the current phase, so the first code after Take
// starts from where the knob really is.
func (d *QuadratureDecoder) Edge(sample uint8) {
	if atomic.LoadUint32(&d.pending) != uint32(DirNone) {
		atomic.AddUint32(&d.dropped, 1)
		d.pvcv = (d.pvcv &^ 0b11) | (sample & 0b11)
		return
	}

	prev := d.pvcv & 0b11
	d.pvcv = ((d.pvcv << 2) | (sample & 0b11)) & 0x0F

	dir := d.table[d.pvcv]
	if dir == DirNone {
		if prev != sample&0b11 && fullTable[d.pvcv] == DirNone {
			atomic.AddUint32(&d.noise, 1)
		}
		return
	}
	atomic.AddUint32(&d.events, 1)
	atomic.StoreUint32(&d.pending, uint32(dir))
}

// Take returns the pending direction and clears the cell
func (d *QuadratureDecoder) Take() Direction {
	return Direction(atomic.SwapUint32(&d.pending, uint32(DirNone)))
}

// Pending returns the pending direction without consuming it
func (d *QuadratureDecoder) Pending() Direction {
	return Direction(atomic.LoadUint32(&d.pending))
}

// DecoderStats are the running decoder counters
type DecoderStats struct {
	Events  uint32 // directions accepted
	Dropped uint32 // samples dropped while a direction was pending
	Noise   uint32 // invalid (double-step) transitions
}

// Stats returns the decoder counters
func (d *QuadratureDecoder) Stats() DecoderStats {
	return DecoderStats{
		Events:  atomic.LoadUint32(&d.events),
		Dropped: atomic.LoadUint32(&d.dropped),
		Noise:   atomic.LoadUint32(&d.noise),
	}
}
