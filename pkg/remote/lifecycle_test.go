package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remote-wiring/remote-wiring-go/pkg/firmata"
	"github.com/remote-wiring/remote-wiring-go/pkg/stream"
)

// fakeBoard scripts the device end of a loopback pair: it answers the
// capability query with the given report and drains everything else.
func fakeBoard(device *stream.Loopback, report []byte) {
	buf := make([]byte, 64)
	var sysex []byte
	inSysex := false

	for {
		n, err := device.Read(buf)
		for _, b := range buf[:n] {
			switch {
			case b == byte(firmata.CommandStartSysex):
				inSysex = true
				sysex = sysex[:0]
			case b == byte(firmata.CommandEndSysex):
				inSysex = false
				if len(sysex) == 1 && firmata.SysexCommand(sysex[0]) == firmata.SysexCapabilityQuery {
					response := []byte{byte(firmata.CommandStartSysex), byte(firmata.SysexCapabilityResponse)}
					response = append(response, report...)
					response = append(response, byte(firmata.CommandEndSysex))
					if _, err := device.Write(response); err != nil {
						return
					}
				}
			case inSysex:
				sysex = append(sysex, b)
			}
		}
		if err != nil {
			return
		}
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestConnectRunsCapabilityDiscovery(t *testing.T) {
	host, device := stream.NewLoopback()
	go fakeBoard(device, eightPinReport())

	d := New(firmata.NewClient(host))

	ready := make(chan struct{})
	d.OnDeviceReady(func() { close(ready) })

	require.NoError(t, d.Connect(context.Background()))
	waitSignal(t, ready, "device-ready")

	assert.Equal(t, StateReady, d.State())
	assert.NotEmpty(t, d.SessionID())

	caps := d.Capabilities()
	assert.Equal(t, 8, caps.TotalPins)
	assert.Equal(t, uint8(4), caps.AnalogOffset)
	assert.Equal(t, 2, caps.NumAnalogPins)

	require.NoError(t, d.Close())
	assert.Equal(t, StateDisconnected, d.State())
	_ = device.Close()
}

func TestDigitalReportOverTheWire(t *testing.T) {
	host, device := stream.NewLoopback()
	go fakeBoard(device, eightPinReport())

	d := New(firmata.NewClient(host))

	ready := make(chan struct{})
	d.OnDeviceReady(func() { close(ready) })

	type change struct {
		pin   uint8
		state PinState
	}
	changes := make(chan change, 8)
	d.OnDigitalPinChanged(func(pin uint8, state PinState) {
		changes <- change{pin, state}
	})

	require.NoError(t, d.Connect(context.Background()))
	waitSignal(t, ready, "device-ready")
	defer d.Close()
	defer device.Close()

	d.SetPinMode(1, PinModeInput)

	_, err := device.Write([]byte{0x90, 0x02, 0x00})
	require.NoError(t, err)

	select {
	case c := <-changes:
		assert.Equal(t, change{1, High}, c)
	case <-time.After(2 * time.Second):
		t.Fatal("digital-pin-changed not raised")
	}

	assert.Equal(t, High, d.DigitalRead(1))
}

func TestConnectionLostSignal(t *testing.T) {
	host, device := stream.NewLoopback()
	go fakeBoard(device, eightPinReport())

	d := New(firmata.NewClient(host))

	ready := make(chan struct{})
	d.OnDeviceReady(func() { close(ready) })

	lost := make(chan struct{})
	d.OnConnectionLost(func(string) { close(lost) })

	require.NoError(t, d.Connect(context.Background()))
	waitSignal(t, ready, "device-ready")

	require.NoError(t, device.Close())
	waitSignal(t, lost, "connection-lost")

	assert.Equal(t, StateLost, d.State())
}

func TestConnectFailure(t *testing.T) {
	host, device := stream.NewLoopback()
	_ = host.Close()
	_ = device.Close()

	d := New(firmata.NewClient(failingStream{}))

	failed := make(chan struct{})
	d.OnConnectionFailed(func(string) { close(failed) })

	err := d.Connect(context.Background())
	require.Error(t, err)
	waitSignal(t, failed, "connection-failed")

	assert.Equal(t, StateFailed, d.State())
}

// failingStream refuses to open.
type failingStream struct{}

func (failingStream) Open(ctx context.Context) error { return errors.New("no such device") }
func (failingStream) Read(p []byte) (int, error)     { return 0, errors.New("not open") }
func (failingStream) Write(p []byte) (int, error)    { return 0, errors.New("not open") }
func (failingStream) Flush() error                   { return nil }
func (failingStream) Close() error                   { return nil }
