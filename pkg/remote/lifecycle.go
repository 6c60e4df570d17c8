package remote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/remote-wiring/remote-wiring-go/pkg/trace"
)

// Connect opens the underlying stream and starts capability discovery.
// The device-ready signal is raised asynchronously once the board's
// capability report has been parsed; Connect itself returns as soon as
// the stream is open.
func (d *Device) Connect(ctx context.Context) error {
	d.setState(StateConnecting, "")
	return d.client.Begin(ctx)
}

// Close shuts down the underlying stream. No connection-lost signal is
// raised for a deliberate shutdown.
func (d *Device) Close() error {
	err := d.client.Finish()
	d.setState(StateDisconnected, "closed")
	return err
}

// onConnectionReady starts capability discovery for this connection
// cycle. The pin cache is not touched until the response arrives; until
// then operations see the previous cycle's cache (or an empty one).
func (d *Device) onConnectionReady() {
	d.mu.Lock()
	if d.state != StateConnecting {
		d.state = StateConnecting
	}
	d.mu.Unlock()

	_ = d.client.SendCapabilityQuery()
}

// onCapabilityResponse finishes capability discovery: parse the report,
// rebuild the cache with every pin defaulting to OUTPUT, mint a session
// ID, wire the report decoders and raise device-ready.
func (d *Device) onCapabilityResponse(report []byte) {
	table := ParseCapabilities(report)

	d.mu.Lock()
	d.caps = table
	d.cache = newPinCache(table)
	d.sessionID = uuid.NewString()
	wire := !d.reportsWired
	d.reportsWired = true
	old := d.state
	d.state = StateReady
	d.mu.Unlock()

	if wire {
		d.client.OnDigitalPortValue(d.onDigitalReport)
		d.client.OnAnalogValue(d.onAnalogReport)
		d.client.OnSysex(d.onSysex)
		d.client.OnString(d.onString)
	}

	d.traceState(old, StateReady, "capability discovery complete")
	d.events.emitDeviceReady()
}

func (d *Device) onConnectionFailed(message string) {
	d.setState(StateFailed, message)
	d.events.emitConnectionFailed(message)
}

func (d *Device) onConnectionLost(message string) {
	d.setState(StateLost, message)
	d.events.emitConnectionLost(message)
}

func (d *Device) setState(newState ConnectionState, reason string) {
	d.mu.Lock()
	old := d.state
	d.state = newState
	d.mu.Unlock()

	if old != newState {
		d.traceState(old, newState, reason)
	}
}

func (d *Device) traceState(old, newState ConnectionState, reason string) {
	d.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		SessionID: d.SessionID(),
		Layer:     trace.LayerDevice,
		Category:  trace.CategoryState,
		StateChange: &trace.StateChangeEvent{
			OldState: old.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
}
