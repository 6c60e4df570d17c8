package remote

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/remote-wiring/remote-wiring-go/pkg/firmata"
)

// fakeStream collects outgoing bytes without any device behind them.
type fakeStream struct {
	mu    sync.Mutex
	wrote bytes.Buffer
}

func (s *fakeStream) Open(ctx context.Context) error { return nil }

func (s *fakeStream) Read(p []byte) (int, error) { return 0, io.EOF }

func (s *fakeStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrote.Write(p)
}

func (s *fakeStream) Flush() error { return nil }

func (s *fakeStream) Close() error { return nil }

func (s *fakeStream) sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.wrote.Bytes()...)
}

func (s *fakeStream) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrote.Reset()
}

// eightPinReport builds a capability report for an eight-pin board:
// pins 0-3 digital, pins 4 and 5 analog, pins 6 and 7 PWM.
func eightPinReport() []byte {
	var report []byte
	for pin := 0; pin < 4; pin++ {
		report = append(report,
			byte(PinModeInput), 1, byte(PinModeOutput), 1, capabilityDelimiter)
	}
	for pin := 4; pin < 6; pin++ {
		report = append(report, byte(PinModeAnalog), 10, capabilityDelimiter)
	}
	for pin := 6; pin < 8; pin++ {
		report = append(report, byte(PinModePWM), 8, capabilityDelimiter)
	}
	return report
}

// newTestDevice builds a device with a completed capability discovery
// over a fake stream, without running a connection.
func newTestDevice(t *testing.T, report []byte) (*Device, *fakeStream) {
	t.Helper()

	fs := &fakeStream{}
	d := New(firmata.NewClient(fs))
	d.onCapabilityResponse(report)
	fs.reset()
	return d, fs
}

func TestCacheDefaultsAfterDiscovery(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	assert.Equal(t, StateReady, d.State())
	assert.NotEmpty(t, d.SessionID())
	assert.Equal(t, 8, d.TotalPins())

	for pin := uint8(0); pin < 8; pin++ {
		assert.Equal(t, PinModeOutput, d.GetPinMode(pin), "pin %d", pin)
		assert.Equal(t, Low, d.DigitalRead(pin), "pin %d", pin)
	}
	assert.Equal(t, uint8(0), d.cache.subscriptions[0])
}

func TestDigitalWriteReadRoundTrip(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.DigitalWrite(2, High)

	assert.Equal(t, High, d.DigitalRead(2))
	assert.Equal(t, Low, d.DigitalRead(1))
	assert.Equal(t, []byte{0x90, 0x04, 0x00}, fs.sent())

	fs.reset()
	d.DigitalWrite(2, Low)

	assert.Equal(t, Low, d.DigitalRead(2))
	assert.Equal(t, []byte{0x90, 0x00, 0x00}, fs.sent())
}

func TestDigitalWriteIllegalModeIsNoop(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.SetPinMode(2, PinModeInput)
	fs.reset()

	d.DigitalWrite(2, High)

	assert.Equal(t, PinModeInput, d.GetPinMode(2))
	assert.Equal(t, Low, d.DigitalRead(2))
	assert.Empty(t, fs.sent())
}

func TestDigitalWriteCorrectsPWMToOutput(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(6, PinModePWM)
	d.DigitalWrite(6, High)

	assert.Equal(t, PinModeOutput, d.GetPinMode(6))
	assert.Equal(t, High, d.DigitalRead(6))
}

func TestDigitalReadCorrectsAnalogToInput(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(4, PinModeAnalog)
	d.DigitalRead(4)

	assert.Equal(t, PinModeInput, d.GetPinMode(4))
	port, mask := portMask(4)
	assert.Equal(t, mask, d.cache.subscriptions[port]&mask)
}

func TestAnalogReadCorrectsInputToAnalog(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(4, PinModeInput)
	value := d.AnalogRead(4)

	assert.Equal(t, uint16(0), value)
	assert.Equal(t, PinModeAnalog, d.GetPinMode(4))
	port, mask := portMask(4)
	assert.Equal(t, uint8(0), d.cache.subscriptions[port]&mask)
}

func TestAnalogReadIllegalModeReturnsSentinel(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	assert.Equal(t, NoAnalogValue, d.AnalogRead(2))
	assert.Equal(t, PinModeOutput, d.GetPinMode(2))
	assert.Empty(t, fs.sent())
}

func TestAnalogReadChannelOutOfRange(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	// Pin 7 sits two past the last analog channel.
	d.SetPinMode(7, PinModeAnalog)

	assert.Equal(t, NoAnalogValue, d.AnalogRead(7))
}

func TestAnalogWriteCorrectsOutputToPWM(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.AnalogWrite(2, 128)

	assert.Equal(t, PinModePWM, d.GetPinMode(2))
	// SET_PIN_MODE then ANALOG_MESSAGE with 7-bit lsb/msb split.
	assert.Equal(t, []byte{0xF4, 0x02, 0x03, 0xE2, 0x00, 0x01}, fs.sent())
}

func TestAnalogWriteIllegalModeIsNoop(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.SetPinMode(2, PinModeInput)
	fs.reset()

	d.AnalogWrite(2, 128)

	assert.Equal(t, PinModeInput, d.GetPinMode(2))
	assert.Empty(t, fs.sent())
}

func TestSetPinModeSubscription(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.SetPinMode(1, PinModeInput)

	assert.Equal(t, uint8(0x02), d.cache.subscriptions[0])
	assert.Equal(t, []byte{0xF4, 0x01, 0x00, 0xD0, 0x02}, fs.sent())

	// A second INPUT pin joins the same port mask.
	fs.reset()
	d.SetPinMode(3, PinModeInput)

	assert.Equal(t, uint8(0x0A), d.cache.subscriptions[0])
	assert.Equal(t, []byte{0xF4, 0x03, 0x00, 0xD0, 0x0A}, fs.sent())

	// Leaving INPUT clears only that pin's bit.
	fs.reset()
	d.SetPinMode(1, PinModeOutput)

	assert.Equal(t, uint8(0x08), d.cache.subscriptions[0])
	assert.Equal(t, []byte{0xF4, 0x01, 0x01, 0xD0, 0x08}, fs.sent())
}

func TestSetPinModeOutputResetsCachedBit(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(1, PinModeInput)
	d.onDigitalReport(0, 0x02)
	assert.Equal(t, High, d.DigitalRead(1))

	d.SetPinMode(1, PinModeOutput)

	assert.Equal(t, Low, d.DigitalRead(1))
}

func TestSetPinModeIdempotent(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	d.SetPinMode(1, PinModeInput)
	first := fs.sent()
	subs := d.cache.subscriptions[0]

	fs.reset()
	d.SetPinMode(1, PinModeInput)

	assert.Equal(t, first, fs.sent())
	assert.Equal(t, subs, d.cache.subscriptions[0])
	assert.Equal(t, PinModeInput, d.GetPinMode(1))
}

func TestDigitalReportMergePreservesOutputBits(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	// Pin 0 subscribed as INPUT, pin 1 held HIGH as OUTPUT.
	d.SetPinMode(0, PinModeInput)
	d.DigitalWrite(1, High)

	var events []struct {
		pin   uint8
		state PinState
	}
	d.OnDigitalPinChanged(func(pin uint8, state PinState) {
		events = append(events, struct {
			pin   uint8
			state PinState
		}{pin, state})
	})

	// The board reports only the subscribed bit; the OUTPUT bit must
	// survive the merge and raise no event.
	d.onDigitalReport(0, 0x01)

	assert.Equal(t, uint8(0x03), d.cache.ports[0])
	if assert.Len(t, events, 1) {
		assert.Equal(t, uint8(0), events[0].pin)
		assert.Equal(t, High, events[0].state)
	}
	assert.Equal(t, High, d.DigitalRead(0))
	assert.Equal(t, High, d.DigitalRead(1))
}

func TestDigitalReportEventPerChangedBit(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(0, PinModeInput)
	d.SetPinMode(2, PinModeInput)
	d.onDigitalReport(0, 0x05)

	var events []uint8
	d.OnDigitalPinChanged(func(pin uint8, state PinState) {
		events = append(events, pin)
	})

	// Pin 0 falls, pin 2 stays high.
	d.onDigitalReport(0, 0x04)

	assert.Equal(t, []uint8{0}, events)
	assert.Equal(t, Low, d.DigitalRead(0))
	assert.Equal(t, High, d.DigitalRead(2))
}

func TestDigitalReportUnknownPortIgnored(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	fired := false
	d.OnDigitalPinChanged(func(uint8, PinState) { fired = true })

	d.onDigitalReport(5, 0xFF)

	assert.False(t, fired)
}

func TestAnalogReportNotDeduplicated(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	var values []uint16
	d.OnAnalogPinChanged(func(channel uint8, value uint16) {
		values = append(values, value)
	})

	d.onAnalogReport(0, 512)
	d.onAnalogReport(0, 512)
	d.onAnalogReport(1, 100)

	assert.Equal(t, []uint16{512, 512, 100}, values)

	d.SetPinMode(4, PinModeAnalog)
	assert.Equal(t, uint16(512), d.AnalogRead(4))
	d.SetPinMode(5, PinModeAnalog)
	assert.Equal(t, uint16(100), d.AnalogRead(5))
}

func TestAnalogReportUnknownChannelIgnored(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	fired := false
	d.OnAnalogPinChanged(func(uint8, uint16) { fired = true })

	d.onAnalogReport(9, 42)

	assert.False(t, fired)
}

func TestOutOfRangePinOperations(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	assert.Equal(t, Low, d.DigitalRead(200))
	assert.Equal(t, NoAnalogValue, d.AnalogRead(200))
	assert.Equal(t, PinModeIgnored, d.GetPinMode(200))

	d.DigitalWrite(200, High)
	d.AnalogWrite(200, 128)
	d.SetPinMode(200, PinModeInput)

	assert.Empty(t, fs.sent())
}

func TestOperationsBeforeDiscovery(t *testing.T) {
	fs := &fakeStream{}
	d := New(firmata.NewClient(fs))

	assert.Equal(t, Low, d.DigitalRead(0))
	assert.Equal(t, NoAnalogValue, d.AnalogRead(0))
	assert.Equal(t, PinModeIgnored, d.GetPinMode(0))
	assert.Equal(t, 0, d.TotalPins())
	assert.Empty(t, d.SessionID())

	d.DigitalWrite(0, High)
	d.SetPinMode(0, PinModeInput)

	assert.Empty(t, fs.sent())
}

func TestNamedOperations(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	// Analog offset is 4, so "A0" addresses pin 4 and "a1" pin 5.
	d.SetPinModeNamed("A0", PinModeAnalog)
	assert.Equal(t, PinModeAnalog, d.GetPinMode(4))
	assert.Equal(t, PinModeAnalog, d.GetPinModeNamed("a0"))

	d.onAnalogReport(1, 333)
	d.SetPinMode(5, PinModeAnalog)
	assert.Equal(t, uint16(333), d.AnalogReadNamed("A1"))

	d.SetPinModeNamed("A0", PinModeOutput)
	d.DigitalWriteNamed("A0", High)
	assert.Equal(t, High, d.DigitalReadNamed("a0"))
}

func TestNamedOperationsInvalidName(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	assert.Equal(t, Low, d.DigitalReadNamed("B1"))
	assert.Equal(t, NoAnalogValue, d.AnalogReadNamed(""))
	assert.Equal(t, PinModeIgnored, d.GetPinModeNamed("A"))

	d.DigitalWriteNamed("B1", High)
	d.SetPinModeNamed("x", PinModeInput)

	assert.Empty(t, fs.sent())
}

func TestNamedOperationOverflowingPinIndex(t *testing.T) {
	d, fs := newTestDevice(t, eightPinReport())

	// Offset 4 plus channel 252 lands on the invalid-pin sentinel.
	assert.Equal(t, PinModeIgnored, d.GetPinModeNamed("A252"))

	d.SetPinModeNamed("A252", PinModeInput)
	assert.Empty(t, fs.sent())
}

func TestSessionIDChangesPerDiscovery(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	first := d.SessionID()
	d.onCapabilityResponse(eightPinReport())

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, d.SessionID())
}

func TestRediscoveryResetsCache(t *testing.T) {
	d, _ := newTestDevice(t, eightPinReport())

	d.SetPinMode(1, PinModeInput)
	d.DigitalWrite(2, High)

	d.onCapabilityResponse(eightPinReport())

	assert.Equal(t, PinModeOutput, d.GetPinMode(1))
	assert.Equal(t, Low, d.DigitalRead(2))
	assert.Equal(t, uint8(0), d.cache.subscriptions[0])
}
