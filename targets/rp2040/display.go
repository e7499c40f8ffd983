//go:build rp2040

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"shutterctl/config"
	"shutterctl/core"
)

const (
	pageHeight   = 8 // pixels per text row
	fontBaseline = 6 // baseline offset inside a row
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// oled draws text rows into the SSD1306 frame buffer. WriteText only
// touches RAM; Flush sends the buffer over I2C. It implements
// core.Display and core.Flusher.
type oled struct {
	dev       ssd1306.Device
	font      tinyfont.Fonter
	charWidth int16
}

// newOLED configures the I2C bus and the panel
func newOLED(cfg config.DisplayConfig) (*oled, error) {
	sda, err := config.PinNumber(cfg.SDA)
	if err != nil {
		return nil, err
	}
	scl, err := config.PinNumber(cfg.SCL)
	if err != nil {
		return nil, err
	}

	bus := i2cBus(sda)
	err = bus.Configure(machine.I2CConfig{
		Frequency: cfg.Frequency,
		SDA:       machine.Pin(sda),
		SCL:       machine.Pin(scl),
	})
	if err != nil {
		return nil, err
	}

	d := &oled{
		dev:  ssd1306.NewI2C(bus),
		font: &proggy.TinySZ8pt7b,
	}
	d.dev.Configure(ssd1306.Config{
		Width:    core.DisplayColumns,
		Height:   core.DisplayRows * pageHeight,
		Address:  cfg.Address,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	d.dev.ClearDisplay()

	_, outboxWidth := tinyfont.LineWidth(d.font, "0")
	d.charWidth = int16(outboxWidth)
	if d.charWidth <= 0 {
		d.charWidth = core.CharWidth
	}
	return d, nil
}

// i2cBus returns the controller wired to an SDA pin. RP2040 alternates
// I2C0 and I2C1 every two GPIOs.
func i2cBus(sda uint8) *machine.I2C {
	if (sda/2)%2 == 0 {
		return machine.I2C0
	}
	return machine.I2C1
}

func (d *oled) WriteText(text string, row, col uint8, highlight int) error {
	x := int16(col)
	y := int16(row) * pageHeight
	width := int16(len(text)) * d.charWidth

	d.fill(x, y, width, pageHeight, black)
	tinyfont.WriteLine(&d.dev, d.font, x, y+fontBaseline, text, white)

	// Underline the selected character on the bottom pixel line
	if highlight >= 0 && highlight < len(text) {
		hx := x + int16(highlight)*d.charWidth
		for i := int16(0); i < d.charWidth-1; i++ {
			d.dev.SetPixel(hx+i, y+pageHeight-1, white)
		}
	}
	return nil
}

func (d *oled) Flush() error {
	return d.dev.Display()
}

func (d *oled) fill(x, y, w, h int16, c color.RGBA) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w && i < core.DisplayColumns; i++ {
			d.dev.SetPixel(i, j, c)
		}
	}
}
