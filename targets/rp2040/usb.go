//go:build rp2040

package main

import (
	"errors"
	"machine"
)

var errUSBStalled = errors.New("usb write made no progress")

// Failed writes since boot, reported in the health line
var usbWriteFailures uint32

// InitUSB initializes USB serial communication.
// On RP2040 machine.Serial is USB CDC, not a UART.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBWriteBytes writes all of data, handling partial writes
func USBWriteBytes(data []byte) error {
	written := 0
	for written < len(data) {
		n, err := machine.Serial.Write(data[written:])
		if err == nil && n == 0 {
			err = errUSBStalled
		}
		if err != nil {
			usbWriteFailures++
			return err
		}
		written += n
	}
	return nil
}

// USBWriteFrame sends one telemetry frame
func USBWriteFrame(frame []byte) error {
	return USBWriteBytes(frame)
}

// usbDebugWriter routes core debug lines to the USB port
func usbDebugWriter(msg string) {
	USBWriteBytes([]byte(msg + "\r\n"))
}
