package firmata

import "testing"

func TestCommandBaseAndChannel(t *testing.T) {
	tests := []struct {
		cmd     Command
		base    Command
		channel uint8
	}{
		{0x90, CommandDigitalMessage, 0},
		{0x9F, CommandDigitalMessage, 15},
		{0xE3, CommandAnalogMessage, 3},
		{0xD2, CommandReportDigital, 2},
		{0xF4, CommandSetPinMode, 4},
		{0xF9, CommandProtocolVersion, 9},
	}

	for _, tt := range tests {
		if got := tt.cmd.Base(); got != tt.base {
			t.Errorf("Command(%#x).Base() = %#x, want %#x", byte(tt.cmd), byte(got), byte(tt.base))
		}
		if got := tt.cmd.Channel(); got != tt.channel {
			t.Errorf("Command(%#x).Channel() = %d, want %d", byte(tt.cmd), got, tt.channel)
		}
	}
}

func TestCommandString(t *testing.T) {
	if got := Command(0x93).String(); got != "DIGITAL_MESSAGE" {
		t.Errorf("got %q, want DIGITAL_MESSAGE", got)
	}
	if got := SysexCapabilityQuery.String(); got != "CAPABILITY_QUERY" {
		t.Errorf("got %q, want CAPABILITY_QUERY", got)
	}
	if got := SysexCommand(0x42).String(); got != "UNKNOWN" {
		t.Errorf("got %q, want UNKNOWN", got)
	}
}
