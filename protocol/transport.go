package protocol

import (
	"bytes"
	"errors"
)

var (
	ErrFrameTooLarge = errors.New("frame exceeds maximum message length")
	ErrUnknownMsg    = errors.New("unknown message id")
)

// Transport frames outgoing telemetry payloads. Each frame carries the
// next sequence number; the host uses gaps to count lost frames.
type Transport struct {
	output OutputBuffer
	seq    uint8
}

// NewTransport creates a Transport writing into output
func NewTransport(output OutputBuffer) *Transport {
	return &Transport{output: output}
}

// EncodeFrame wraps payload as one frame and appends it to the output
func (t *Transport) EncodeFrame(payload []byte) error {
	msgLen := len(payload) + MessageHeaderSize + MessageTrailerSize
	if msgLen > MessageLengthMax {
		return ErrFrameTooLarge
	}

	cursor := t.output.CurPosition()
	seq := MessageDest | (t.seq & MessageSeqMask)
	t.output.Output([]byte{uint8(msgLen), seq})
	t.output.Output(payload)

	crc := CRC16(t.output.DataSince(cursor))
	t.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	t.seq = (t.seq + 1) & MessageSeqMask
	return nil
}

// Sequence returns the sequence number the next frame will carry
func (t *Transport) Sequence() uint8 {
	return MessageDest | t.seq
}

// Frame is one decoded telemetry frame
type Frame struct {
	Sequence uint8
	Payload  []byte
}

// ScannerStats counts what the scanner had to throw away
type ScannerStats struct {
	Frames  uint32
	Dropped uint32 // bytes skipped while resynchronizing
	BadCRC  uint32
	Resyncs uint32
}

// Scanner splits a raw byte stream into frames. It resynchronizes on the
// sync byte after any malformed or corrupted block, so interleaved debug
// text on the same link is skipped.
type Scanner struct {
	buf          []byte
	synchronized bool
	stats        ScannerStats
}

// NewScanner creates a Scanner. It starts synchronized so the very first
// frame after power-up is not lost.
func NewScanner() *Scanner {
	return &Scanner{synchronized: true}
}

// Feed appends incoming bytes and calls handle for every complete frame.
// Payloads are copies and stay valid after Feed returns.
func (s *Scanner) Feed(in []byte, handle func(Frame)) {
	s.buf = append(s.buf, in...)
	data := s.buf

	for len(data) > 0 {
		if !s.synchronized {
			syncPos := bytes.IndexByte(data, MessageValueSync)
			if syncPos < 0 {
				s.stats.Dropped += uint32(len(data))
				data = nil
				break
			}
			s.stats.Dropped += uint32(syncPos)
			data = data[syncPos+1:]
			s.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			s.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			s.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			s.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			s.stats.BadCRC++
			s.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		data = data[msgLen:]
		s.stats.Frames++
		if handle != nil {
			handle(Frame{Sequence: seq, Payload: payload})
		}
	}

	n := copy(s.buf, data)
	s.buf = s.buf[:n]
}

func (s *Scanner) desync() {
	s.synchronized = false
	s.stats.Resyncs++
}

// Stats returns the scanner counters
func (s *Scanner) Stats() ScannerStats {
	return s.stats
}

// Reset drops any buffered partial frame
func (s *Scanner) Reset() {
	s.buf = s.buf[:0]
	s.synchronized = true
}
