package protocol

// StatusMessage is the periodic controller status report
type StatusMessage struct {
	Mode     uint8
	Delay    int32
	Duration int32
	Pictures int32
	Interval int32
	Field    uint8 // selected parameter
	Digit    uint8 // selected decimal place
	Battery  uint8 // bars, 0..4
	Charging bool
	Shots    uint32 // shutter assertions in the running sequence
	Uptime   uint32 // physical ticks since boot
}

// EncodeStatus writes msg as a status payload
func EncodeStatus(output OutputBuffer, msg StatusMessage) {
	EncodeVLQUint(output, MsgStatus)
	EncodeVLQUint(output, uint32(msg.Mode))
	EncodeVLQInt(output, msg.Delay)
	EncodeVLQInt(output, msg.Duration)
	EncodeVLQInt(output, msg.Pictures)
	EncodeVLQInt(output, msg.Interval)
	EncodeVLQUint(output, uint32(msg.Field))
	EncodeVLQUint(output, uint32(msg.Digit))
	EncodeVLQUint(output, uint32(msg.Battery))
	charging := uint32(0)
	if msg.Charging {
		charging = 1
	}
	EncodeVLQUint(output, charging)
	EncodeVLQUint(output, msg.Shots)
	EncodeVLQUint(output, msg.Uptime)
}

// DecodeStatus parses a status payload
func DecodeStatus(payload []byte) (StatusMessage, error) {
	var msg StatusMessage
	data := payload

	id, err := DecodeVLQUint(&data)
	if err != nil {
		return msg, err
	}
	if id != MsgStatus {
		return msg, ErrUnknownMsg
	}

	var u [11]uint32
	for i := range u {
		if u[i], err = DecodeVLQUint(&data); err != nil {
			return msg, err
		}
	}

	msg.Mode = uint8(u[0])
	msg.Delay = int32(u[1])
	msg.Duration = int32(u[2])
	msg.Pictures = int32(u[3])
	msg.Interval = int32(u[4])
	msg.Field = uint8(u[5])
	msg.Digit = uint8(u[6])
	msg.Battery = uint8(u[7])
	msg.Charging = u[8] != 0
	msg.Shots = u[9]
	msg.Uptime = u[10]
	return msg, nil
}

// EncodeStatusFrame encodes msg and frames it in one step
func EncodeStatusFrame(t *Transport, msg StatusMessage) error {
	payload := NewScratchOutput()
	EncodeStatus(payload, msg)
	return t.EncodeFrame(payload.Result())
}
