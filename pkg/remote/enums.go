package remote

// PinMode represents the operating mode of a pin. Values match the
// Firmata wire encoding.
type PinMode uint8

const (
	// PinModeInput configures a pin for digital input with reporting.
	PinModeInput PinMode = 0x00

	// PinModeOutput configures a pin for digital output.
	PinModeOutput PinMode = 0x01

	// PinModeAnalog configures a pin for analog input.
	PinModeAnalog PinMode = 0x02

	// PinModePWM configures a pin for PWM output.
	PinModePWM PinMode = 0x03

	// PinModeServo configures a pin for servo control.
	PinModeServo PinMode = 0x04

	// PinModeI2C configures a pin for I2C bus use.
	PinModeI2C PinMode = 0x06

	// PinModeIgnored marks a pin the firmware should leave alone. Also
	// returned as the sentinel mode for unresolvable pins.
	PinModeIgnored PinMode = 0x7F
)

// String returns the pin mode name.
func (m PinMode) String() string {
	switch m {
	case PinModeInput:
		return "INPUT"
	case PinModeOutput:
		return "OUTPUT"
	case PinModeAnalog:
		return "ANALOG"
	case PinModePWM:
		return "PWM"
	case PinModeServo:
		return "SERVO"
	case PinModeI2C:
		return "I2C"
	case PinModeIgnored:
		return "IGNORED"
	default:
		return "UNKNOWN"
	}
}

// PinState represents a digital pin level.
type PinState uint8

const (
	// Low is a logic-low pin level.
	Low PinState = 0

	// High is a logic-high pin level.
	High PinState = 1
)

// String returns the pin state name.
func (s PinState) String() string {
	switch s {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// ConnectionState represents the device connection lifecycle state.
type ConnectionState uint8

const (
	// StateDisconnected indicates no connection attempt has been made.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates the stream is opening or capability
	// discovery is in flight.
	StateConnecting

	// StateReady indicates capability discovery completed and pin
	// operations are meaningful.
	StateReady

	// StateFailed indicates the connection attempt failed.
	StateFailed

	// StateLost indicates an established connection was lost.
	StateLost
)

// String returns a human-readable state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	case StateLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// InvalidPin is the sentinel returned when a symbolic pin name cannot
// be resolved.
const InvalidPin uint8 = 0xFF

// NoAnalogValue is the sentinel returned by analog reads that cannot
// produce a cached value.
const NoAnalogValue uint16 = 0xFFFF
