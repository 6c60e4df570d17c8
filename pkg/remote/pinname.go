package remote

// parseAnalogPinName parses a symbolic analog pin name: a letter 'a' or
// 'A' followed by a decimal channel number ("A0", "a3"). Returns the
// channel number and whether the name was valid.
//
// Trailing non-digit characters after at least one digit are tolerated
// ("A0x" parses as channel 0); a name with no digits is rejected.
func parseAnalogPinName(name string) (uint8, bool) {
	// A valid name needs at least the letter and one digit.
	if len(name) < 2 {
		return 0, false
	}
	if name[0] != 'a' && name[0] != 'A' {
		return 0, false
	}

	channel := 0
	digits := 0
	for i := 1; i < len(name); i++ {
		d := name[i]
		if d < '0' || d > '9' {
			break
		}
		channel = channel*10 + int(d-'0')
		digits++
		if channel > 0xFF {
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}

	return uint8(channel), true
}
