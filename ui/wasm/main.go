//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/hex"
	"syscall/js"

	"shutterctl/core"
	"shutterctl/protocol"
)

// Scanner shared across feed calls, so frames split between WebSerial
// reads are reassembled
var scanner = protocol.NewScanner()

func main() {
	// Export functions to JavaScript
	js.Global().Set("shutterWasm", js.ValueOf(map[string]interface{}{
		"crc16":        js.FuncOf(crc16Wrapper),
		"feed":         js.FuncOf(feedWrapper),
		"decodeStatus": js.FuncOf(decodeStatusWrapper),
		"stats":        js.FuncOf(statsWrapper),
		"reset":        js.FuncOf(resetWrapper),
		"version":      protocol.Version,
	}))

	// Keep the program running
	select {}
}

// crc16Wrapper calculates CRC16 checksum
// Args: hexString (string)
// Returns: number (uint16)
func crc16Wrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(protocol.CRC16(data)))
}

// feedWrapper pushes raw link bytes through the scanner
// Args: hexString (string)
// Returns: [status objects] or {error: string}
func feedWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("missing hex string argument")
	}
	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeError("invalid hex string: " + err.Error())
	}

	statuses := []interface{}{}
	scanner.Feed(data, func(f protocol.Frame) {
		msg, err := protocol.DecodeStatus(f.Payload)
		if err != nil {
			return
		}
		statuses = append(statuses, statusObject(f.Sequence, msg))
	})
	return js.ValueOf(statuses)
}

// decodeStatusWrapper decodes one frame payload
// Args: hexString (string)
// Returns: status object or {error: string}
func decodeStatusWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("missing hex string argument")
	}
	payload, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeError("invalid hex string: " + err.Error())
	}
	msg, err := protocol.DecodeStatus(payload)
	if err != nil {
		return makeError(err.Error())
	}
	return js.ValueOf(statusObject(0, msg))
}

// statsWrapper returns the scanner counters
func statsWrapper(this js.Value, args []js.Value) interface{} {
	s := scanner.Stats()
	return js.ValueOf(map[string]interface{}{
		"frames":  int(s.Frames),
		"dropped": int(s.Dropped),
		"badCRC":  int(s.BadCRC),
		"resyncs": int(s.Resyncs),
	})
}

// resetWrapper drops any partial frame, e.g. after reopening the port
func resetWrapper(this js.Value, args []js.Value) interface{} {
	scanner.Reset()
	return js.Undefined()
}

func statusObject(seq uint8, msg protocol.StatusMessage) map[string]interface{} {
	return map[string]interface{}{
		"sequence": int(seq),
		"mode":     core.Mode(msg.Mode).String(),
		"delay":    int(msg.Delay),
		"duration": int(msg.Duration),
		"pictures": int(msg.Pictures),
		"interval": int(msg.Interval),
		"field":    core.Field(msg.Field).String(),
		"digit":    int(msg.Digit),
		"battery":  int(msg.Battery),
		"charging": msg.Charging,
		"glyph":    core.BatteryGlyph(msg.Battery, msg.Charging),
		"shots":    int(msg.Shots),
		"uptime":   int(msg.Uptime),
	}
}

func makeError(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
