package firmata

// parserState tracks where the decoder is within a message.
type parserState uint8

const (
	// parserIdle means the decoder is waiting for a command byte.
	parserIdle parserState = iota

	// parserData means the decoder is collecting fixed data bytes.
	parserData

	// parserSysex means the decoder is collecting sysex bytes until
	// END_SYSEX.
	parserSysex
)

// parser is the incoming message state machine. Firmata messages are
// either a command byte followed by a fixed number of 7-bit data bytes,
// or a sysex message delimited by START_SYSEX/END_SYSEX.
type parser struct {
	state   parserState
	command Command
	channel uint8
	data    [2]byte
	have    int
	need    int
	sysex   []byte
}

// processByte advances the decoder by one byte, dispatching completed
// messages to the client's handlers.
func (c *Client) processByte(b byte) {
	p := &c.parser

	switch p.state {
	case parserSysex:
		if Command(b) == CommandEndSysex {
			p.state = parserIdle
			c.dispatchSysex(p.sysex)
			p.sysex = nil
			return
		}
		p.sysex = append(p.sysex, b)

	case parserData:
		p.data[p.have] = b & 0x7F
		p.have++
		if p.have == p.need {
			p.state = parserIdle
			c.dispatchMessage()
		}

	case parserIdle:
		if b < 0x80 {
			// Stray data byte outside any message; skip.
			return
		}
		cmd := Command(b)
		switch cmd.Base() {
		case CommandDigitalMessage, CommandAnalogMessage, CommandProtocolVersion:
			p.command = cmd.Base()
			p.channel = cmd.Channel()
			p.have = 0
			p.need = 2
			p.state = parserData
		case CommandStartSysex:
			p.sysex = p.sysex[:0]
			p.state = parserSysex
		default:
			// Unhandled single-byte command; stay idle.
		}
	}
}

// dispatchMessage delivers a completed fixed-length message.
func (c *Client) dispatchMessage() {
	p := &c.parser
	value := uint16(p.data[0]) | uint16(p.data[1])<<7

	switch p.command {
	case CommandDigitalMessage:
		c.handlers.emitDigitalPortValue(p.channel, uint8(value))
	case CommandAnalogMessage:
		c.handlers.emitAnalogValue(p.channel, value)
	case CommandProtocolVersion:
		c.handlers.emitProtocolVersion(p.data[0], p.data[1])
	}
}

// dispatchSysex delivers a completed sysex message. The first byte is
// the sysex sub-command; the rest is the payload.
func (c *Client) dispatchSysex(msg []byte) {
	if len(msg) == 0 {
		return
	}
	cmd := SysexCommand(msg[0])
	payload := append([]byte(nil), msg[1:]...)

	switch cmd {
	case SysexCapabilityResponse:
		c.handlers.emitCapabilityResponse(payload)
	case SysexStringData:
		c.handlers.emitString(decodeTwoByteString(payload))
	default:
		c.handlers.emitSysex(cmd, payload)
	}
}

// decodeTwoByteString reassembles characters sent as 7-bit pairs.
// A trailing unpaired byte is treated as a bare 7-bit character.
func decodeTwoByteString(data []byte) string {
	out := make([]byte, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		ch := data[i] & 0x7F
		if i+1 < len(data) {
			ch |= data[i+1] << 7
		}
		out = append(out, ch)
	}
	return string(out)
}
