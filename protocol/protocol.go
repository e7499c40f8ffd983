// Package protocol implements the status telemetry link between the
// trigger controller and a host. Frames use the Klipper block layout:
// length, sequence, VLQ payload, CRC16 and a trailing sync byte.
package protocol

// Version is the telemetry protocol version
const Version = "0.1.0"

// Frame constants
const (
	MessageMax         = 128 // Scratch output capacity
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 96
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence mask
	MessageSeqMask = 0x0F
)

// Message identifiers (first VLQ of a payload)
const (
	MsgStatus = 1
)
