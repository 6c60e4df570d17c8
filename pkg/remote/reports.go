package remote

import (
	"time"

	"github.com/remote-wiring/remote-wiring-go/pkg/firmata"
	"github.com/remote-wiring/remote-wiring-go/pkg/trace"
)

// onDigitalReport folds an incoming digital port report into the cache
// and raises one digital-pin-changed event per changed bit.
//
// The board only reports bits of pins subscribed as INPUT; cached
// OUTPUT bits are reinserted before diffing so a report never clobbers
// a host-written value.
func (d *Device) onDigitalReport(port uint8, value uint8) {
	d.mu.Lock()

	if !d.cache.validPort(port) {
		d.traceErrorLocked("digitalReport", "port outside cache")
		d.mu.Unlock()
		return
	}

	merged := value | d.cache.ports[port]&^d.cache.subscriptions[port]
	changed := merged ^ d.cache.ports[port]
	d.cache.ports[port] = merged
	sessionID := d.sessionID
	d.mu.Unlock()

	d.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: trace.DirectionIn,
		Layer:     trace.LayerDevice,
		Category:  trace.CategoryReport,
		Report:    &trace.ReportEvent{Kind: trace.ReportDigital, Index: port, Value: uint16(merged)},
	})

	// Bit 0 is the lowest-numbered pin in the port.
	for i := uint8(0); changed > 0; i++ {
		if changed&0x01 != 0 {
			state := Low
			if merged>>i&0x01 != 0 {
				state = High
			}
			d.events.emitDigitalPinChanged(port*8+i, state)
		}
		changed >>= 1
	}
}

// onAnalogReport stores an incoming analog report and raises the
// analog-pin-changed event unconditionally; equal consecutive values
// are not de-duplicated.
func (d *Device) onAnalogReport(channel uint8, value uint16) {
	d.mu.Lock()

	if !d.cache.validChannel(int(channel)) {
		d.traceErrorLocked("analogReport", "channel outside cache")
		d.mu.Unlock()
		return
	}

	d.cache.analog[channel] = value
	sessionID := d.sessionID
	d.mu.Unlock()

	d.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: trace.DirectionIn,
		Layer:     trace.LayerDevice,
		Category:  trace.CategoryReport,
		Report:    &trace.ReportEvent{Kind: trace.ReportAnalog, Index: channel, Value: value},
	})

	d.events.emitAnalogPinChanged(channel, value)
}

// onSysex re-raises sysex messages the device does not consume.
func (d *Device) onSysex(cmd firmata.SysexCommand, payload []byte) {
	d.events.emitSysexReceived(byte(cmd), payload)
}

// onString re-raises text messages from the firmware.
func (d *Device) onString(message string) {
	d.events.emitStringReceived(message)
}
