package firmata

// Command represents a Firmata command byte. Commands below 0xF0 carry
// a channel (port or pin) in their low nibble.
type Command byte

const (
	// CommandDigitalMessage reports or sets an 8-bit digital port value.
	CommandDigitalMessage Command = 0x90

	// CommandReportAnalog enables/disables reporting for an analog channel.
	CommandReportAnalog Command = 0xC0

	// CommandReportDigital sets the reporting mask for a digital port.
	CommandReportDigital Command = 0xD0

	// CommandAnalogMessage reports or sets an analog channel value.
	CommandAnalogMessage Command = 0xE0

	// CommandStartSysex opens an extended message.
	CommandStartSysex Command = 0xF0

	// CommandSetPinMode sets the operating mode of a single pin.
	CommandSetPinMode Command = 0xF4

	// CommandSetDigitalPinValue sets a single digital pin value.
	CommandSetDigitalPinValue Command = 0xF5

	// CommandEndSysex closes an extended message.
	CommandEndSysex Command = 0xF7

	// CommandProtocolVersion reports the protocol version (major, minor).
	CommandProtocolVersion Command = 0xF9

	// CommandSystemReset asks the firmware to reset to default state.
	CommandSystemReset Command = 0xFF
)

// String returns the command name.
func (c Command) String() string {
	switch c.Base() {
	case CommandDigitalMessage:
		return "DIGITAL_MESSAGE"
	case CommandReportAnalog:
		return "REPORT_ANALOG"
	case CommandReportDigital:
		return "REPORT_DIGITAL"
	case CommandAnalogMessage:
		return "ANALOG_MESSAGE"
	case CommandStartSysex:
		return "START_SYSEX"
	case CommandSetPinMode:
		return "SET_PIN_MODE"
	case CommandSetDigitalPinValue:
		return "SET_DIGITAL_PIN_VALUE"
	case CommandEndSysex:
		return "END_SYSEX"
	case CommandProtocolVersion:
		return "PROTOCOL_VERSION"
	case CommandSystemReset:
		return "SYSTEM_RESET"
	default:
		return "UNKNOWN"
	}
}

// Base strips the channel nibble from channel-carrying commands.
func (c Command) Base() Command {
	if c < 0xF0 {
		return c & 0xF0
	}
	return c
}

// Channel returns the channel nibble of channel-carrying commands.
func (c Command) Channel() uint8 {
	return uint8(c & 0x0F)
}

// SysexCommand represents a Firmata sysex sub-command byte.
type SysexCommand byte

const (
	// SysexAnalogMappingQuery asks which pins map to analog channels.
	SysexAnalogMappingQuery SysexCommand = 0x69

	// SysexAnalogMappingResponse answers an analog mapping query.
	SysexAnalogMappingResponse SysexCommand = 0x6A

	// SysexCapabilityQuery asks for the per-pin capability report.
	SysexCapabilityQuery SysexCommand = 0x6B

	// SysexCapabilityResponse carries the per-pin capability report.
	SysexCapabilityResponse SysexCommand = 0x6C

	// SysexPinStateQuery asks for a single pin's mode and state.
	SysexPinStateQuery SysexCommand = 0x6D

	// SysexPinStateResponse answers a pin state query.
	SysexPinStateResponse SysexCommand = 0x6E

	// SysexExtendedAnalog sets an analog value on pins above 15 or
	// with more than 14 bits of resolution.
	SysexExtendedAnalog SysexCommand = 0x6F

	// SysexStringData carries a text message in 7-bit character pairs.
	SysexStringData SysexCommand = 0x71

	// SysexReportFirmware reports the firmware name and version.
	SysexReportFirmware SysexCommand = 0x79

	// SysexSamplingInterval sets the analog sampling interval.
	SysexSamplingInterval SysexCommand = 0x7A
)

// String returns the sysex command name.
func (c SysexCommand) String() string {
	switch c {
	case SysexAnalogMappingQuery:
		return "ANALOG_MAPPING_QUERY"
	case SysexAnalogMappingResponse:
		return "ANALOG_MAPPING_RESPONSE"
	case SysexCapabilityQuery:
		return "CAPABILITY_QUERY"
	case SysexCapabilityResponse:
		return "CAPABILITY_RESPONSE"
	case SysexPinStateQuery:
		return "PIN_STATE_QUERY"
	case SysexPinStateResponse:
		return "PIN_STATE_RESPONSE"
	case SysexExtendedAnalog:
		return "EXTENDED_ANALOG"
	case SysexStringData:
		return "STRING_DATA"
	case SysexReportFirmware:
		return "REPORT_FIRMWARE"
	case SysexSamplingInterval:
		return "SAMPLING_INTERVAL"
	default:
		return "UNKNOWN"
	}
}
