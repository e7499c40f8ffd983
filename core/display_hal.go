package core

// NoHighlight disables the per-character highlight marker
const NoHighlight = -1

// Display is the text display collaborator. It owns the wire transfer and
// the font blitting; the core only addresses rows, pixel columns and text.
// Display calls may be slow and are only made from the foreground loop.
type Display interface {
	// WriteText draws text on the given row starting at pixel column col.
	// If highlight is not negative, that character index is marked (the
	// digit currently selected for editing).
	WriteText(text string, row, col uint8, highlight int) error
}

// Flusher is implemented by displays that buffer WriteText output in RAM.
// Flush pushes everything drawn since the previous call to the panel.
type Flusher interface {
	Flush() error
}
