package remote

import "testing"

func TestParseAnalogPinName(t *testing.T) {
	tests := []struct {
		name    string
		channel uint8
		ok      bool
	}{
		{"A0", 0, true},
		{"a3", 3, true},
		{"A15", 15, true},
		{"a255", 255, true},
		{"A0x", 0, true},
		{"A12junk", 12, true},
		{"B1", 0, false},
		{"", 0, false},
		{"A", 0, false},
		{"Ax", 0, false},
		{"7", 0, false},
		{"A256", 0, false},
		{"a9999", 0, false},
	}

	for _, tt := range tests {
		channel, ok := parseAnalogPinName(tt.name)
		if ok != tt.ok || channel != tt.channel {
			t.Errorf("parseAnalogPinName(%q) = (%d, %v), want (%d, %v)",
				tt.name, channel, ok, tt.channel, tt.ok)
		}
	}
}
