package remote

// capabilityDelimiter terminates each pin's record in a capability
// report. One record per pin, in pin order, starting at pin 0.
const capabilityDelimiter = 0x7F

// CapabilityTable holds the facts derived from a board's capability
// report. It is computed once per connection cycle and immutable until
// the next reconnection.
type CapabilityTable struct {
	// TotalPins is the number of pin records found in the report.
	TotalPins int

	// AnalogOffset is the index of the first pin supporting analog
	// input, or 0 if none was found. Translates symbolic analog names
	// ("A0") to physical pin indices.
	AnalogOffset uint8

	// NumAnalogPins counts pins supporting analog input.
	NumAnalogPins int
}

// ParseCapabilities decodes a capability-report buffer into a
// CapabilityTable.
//
// Each pin's record is a sequence of (mode, resolution) entries
// terminated by the delimiter byte. INPUT entries carry three trailing
// bytes; ANALOG, PWM, SERVO and I2C entries carry one; unrecognized
// bytes are skipped one at a time. A truncated buffer yields a partial
// table (fewer pins than the board has) rather than an error.
func ParseCapabilities(report []byte) CapabilityTable {
	var table CapabilityTable
	analogSeen := false

	for i := 0; i < len(report); i++ {
		for i < len(report) && report[i] != capabilityDelimiter {
			switch PinMode(report[i]) {
			case PinModeInput:
				i += 4

			case PinModeAnalog:
				if !analogSeen {
					table.AnalogOffset = uint8(table.TotalPins)
					analogSeen = true
				}
				table.NumAnalogPins++
				i += 2

			case PinModePWM, PinModeServo, PinModeI2C:
				i += 2

			default:
				i++
			}
		}

		// Only a delimiter completes a pin record; a record cut short
		// by buffer exhaustion is not counted.
		if i < len(report) {
			table.TotalPins++
		}
	}

	return table
}
