package remote

import (
	"fmt"
	"sync"
	"time"

	"github.com/remote-wiring/remote-wiring-go/pkg/firmata"
	"github.com/remote-wiring/remote-wiring-go/pkg/trace"
)

// Device is the Arduino-style pin model for one remote board.
type Device struct {
	client *firmata.Client
	tracer trace.Logger

	// mu guards every field below plus all cache contents and the
	// mode-transition decisions. Exported operations take it once;
	// *Locked helpers assume it is held.
	mu           sync.Mutex
	state        ConnectionState
	sessionID    string
	caps         CapabilityTable
	cache        *pinCache
	reportsWired bool

	events deviceEvents
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithTracer attaches a trace logger recording state changes, decoded
// reports and degraded operations.
func WithTracer(tracer trace.Logger) DeviceOption {
	return func(d *Device) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// New creates a Device over the given client and subscribes to its
// connection signals. Call Connect to open the underlying stream.
func New(client *firmata.Client, opts ...DeviceOption) *Device {
	d := &Device{
		client: client,
		tracer: trace.NoopLogger{},
		state:  StateDisconnected,
		cache:  &pinCache{},
	}
	for _, opt := range opts {
		opt(d)
	}

	client.OnConnectionReady(d.onConnectionReady)
	client.OnConnectionFailed(d.onConnectionFailed)
	client.OnConnectionLost(d.onConnectionLost)
	client.OnCapabilityResponse(d.onCapabilityResponse)

	return d
}

// DigitalRead returns the cached digital state of a pin without
// querying the board. A pin in ANALOG mode is switched to INPUT first.
// An unknown pin reads as LOW.
func (d *Device) DigitalRead(pin uint8) PinState {
	d.mu.Lock()

	if !d.cache.validPin(pin) {
		d.traceErrorLocked("digitalRead", fmt.Sprintf("pin %d outside cache of %d pins", pin, len(d.cache.modes)))
		d.mu.Unlock()
		return Low
	}

	if d.cache.modes[pin] == PinModeAnalog {
		d.setPinModeLocked(pin, PinModeInput)
	}

	port, mask := portMask(pin)
	state := Low
	if d.cache.ports[port]&mask != 0 {
		state = High
	}
	d.mu.Unlock()
	return state
}

// DigitalWrite sets a pin's digital output value. Legal on OUTPUT pins
// and on PWM pins (switched to OUTPUT first); anything else is a no-op.
// The cached port byte is updated and the full port sent to the board.
func (d *Device) DigitalWrite(pin uint8, state PinState) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cache.validPin(pin) {
		return
	}

	if d.cache.modes[pin] != PinModeOutput {
		if d.cache.modes[pin] != PinModePWM {
			return
		}
		d.setPinModeLocked(pin, PinModeOutput)
	}

	port, mask := portMask(pin)
	if state != Low {
		d.cache.ports[port] |= mask
	} else {
		d.cache.ports[port] &^= mask
	}

	_ = d.client.SendDigitalPort(uint8(port), d.cache.ports[port])
}

// AnalogRead returns the last reported value for a pin's analog
// channel. Legal on ANALOG pins and on INPUT pins (switched to ANALOG
// first); anything else returns NoAnalogValue, as does a pin whose
// channel falls outside the board's analog range.
func (d *Device) AnalogRead(pin uint8) uint16 {
	d.mu.Lock()

	if !d.cache.validPin(pin) {
		d.traceErrorLocked("analogRead", fmt.Sprintf("pin %d outside cache of %d pins", pin, len(d.cache.modes)))
		d.mu.Unlock()
		return NoAnalogValue
	}

	if d.cache.modes[pin] != PinModeAnalog {
		if d.cache.modes[pin] != PinModeInput {
			d.mu.Unlock()
			return NoAnalogValue
		}
		d.setPinModeLocked(pin, PinModeAnalog)
	}

	channel := int(pin) - int(d.caps.AnalogOffset)
	if !d.cache.validChannel(channel) {
		d.traceErrorLocked("analogRead", fmt.Sprintf("pin %d maps to channel %d outside %d channels", pin, channel, d.caps.NumAnalogPins))
		d.mu.Unlock()
		return NoAnalogValue
	}

	value := d.cache.analog[channel]
	d.mu.Unlock()
	return value
}

// AnalogWrite sends a PWM value to a pin. Legal on PWM pins and on
// OUTPUT pins (switched to PWM first); anything else is a no-op. No
// local cache is updated; duty values are write-only.
func (d *Device) AnalogWrite(pin uint8, value uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cache.validPin(pin) {
		return
	}

	if d.cache.modes[pin] != PinModePWM {
		if d.cache.modes[pin] != PinModeOutput {
			return
		}
		d.setPinModeLocked(pin, PinModePWM)
	}

	_ = d.client.SendAnalog(pin, value)
}

// SetPinMode sets a pin's operating mode. The mode command, the port
// subscription update and the cache update are atomic with respect to
// concurrent operations.
func (d *Device) SetPinMode(pin uint8, mode PinMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setPinModeLocked(pin, mode)
}

// GetPinMode returns a pin's cached operating mode. An unknown pin
// reports PinModeIgnored.
func (d *Device) GetPinMode(pin uint8) PinMode {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cache.validPin(pin) {
		return PinModeIgnored
	}
	return d.cache.modes[pin]
}

// setPinModeLocked performs the mode change while holding d.mu. It is
// also the auto-mode-correction path, so it must stay callable from
// inside other guarded operations.
func (d *Device) setPinModeLocked(pin uint8, mode PinMode) {
	if !d.cache.validPin(pin) {
		d.traceErrorLocked("setPinMode", fmt.Sprintf("pin %d outside cache of %d pins", pin, len(d.cache.modes)))
		return
	}

	port, mask := portMask(pin)

	// One framing bracket covers the mode command and any subscription
	// update so the two cannot be split by a concurrent sender.
	d.client.Lock()
	d.client.Write(byte(firmata.CommandSetPinMode))
	d.client.Write(pin)
	d.client.Write(byte(mode))

	if mode == PinModeInput {
		d.cache.subscriptions[port] |= mask
		d.client.Write(byte(firmata.CommandReportDigital) | uint8(port)&0x0F)
		d.client.Write(d.cache.subscriptions[port])
	} else if d.cache.modes[pin] == PinModeInput {
		// Leaving INPUT mode; stop the board reporting this pin.
		d.cache.subscriptions[port] &^= mask
		d.client.Write(byte(firmata.CommandReportDigital) | uint8(port)&0x0F)
		d.client.Write(d.cache.subscriptions[port])
	}
	_ = d.client.Flush()
	d.client.Unlock()

	// Entering OUTPUT from another mode resets the cached bit to LOW.
	if mode == PinModeOutput && d.cache.modes[pin] != PinModeOutput {
		d.cache.ports[port] &^= mask
	}

	d.cache.modes[pin] = mode
}

// DigitalReadNamed is DigitalRead addressed by a symbolic analog pin
// name ("A0"). An invalid name reads as LOW.
func (d *Device) DigitalReadNamed(name string) PinState {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return Low
	}
	return d.DigitalRead(pin)
}

// DigitalWriteNamed is DigitalWrite addressed by a symbolic analog pin
// name. An invalid name is a no-op.
func (d *Device) DigitalWriteNamed(name string, state PinState) {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return
	}
	d.DigitalWrite(pin, state)
}

// AnalogReadNamed is AnalogRead addressed by a symbolic analog pin
// name. An invalid name returns NoAnalogValue.
func (d *Device) AnalogReadNamed(name string) uint16 {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return NoAnalogValue
	}
	return d.AnalogRead(pin)
}

// AnalogWriteNamed is AnalogWrite addressed by a symbolic analog pin
// name. An invalid name is a no-op.
func (d *Device) AnalogWriteNamed(name string, value uint16) {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return
	}
	d.AnalogWrite(pin, value)
}

// SetPinModeNamed is SetPinMode addressed by a symbolic analog pin
// name. An invalid name is a no-op.
func (d *Device) SetPinModeNamed(name string, mode PinMode) {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return
	}
	d.SetPinMode(pin, mode)
}

// GetPinModeNamed is GetPinMode addressed by a symbolic analog pin
// name. An invalid name reports PinModeIgnored.
func (d *Device) GetPinModeNamed(name string) PinMode {
	pin := d.resolveAnalogName(name)
	if pin == InvalidPin {
		return PinModeIgnored
	}
	return d.GetPinMode(pin)
}

// resolveAnalogName maps a symbolic analog name to its physical pin
// index using the analog offset from the capability table.
func (d *Device) resolveAnalogName(name string) uint8 {
	channel, ok := parseAnalogPinName(name)
	if !ok {
		return InvalidPin
	}

	d.mu.Lock()
	offset := d.caps.AnalogOffset
	d.mu.Unlock()

	pin := int(offset) + int(channel)
	if pin >= int(InvalidPin) {
		return InvalidPin
	}
	return uint8(pin)
}

// State returns the current connection state.
func (d *Device) State() ConnectionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SessionID returns the UUID minted for the current connection cycle,
// or empty before the first capability discovery completes.
func (d *Device) SessionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessionID
}

// Capabilities returns the capability table of the current connection
// cycle. Zero-valued before device-ready.
func (d *Device) Capabilities() CapabilityTable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caps
}

// TotalPins returns the number of pins in the current cache.
func (d *Device) TotalPins() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache.modes)
}

// traceErrorLocked records a degraded operation. d.mu must be held.
func (d *Device) traceErrorLocked(context, message string) {
	d.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Layer:     trace.LayerDevice,
		Category:  trace.CategoryError,
		Error:     &trace.ErrorEvent{Context: context, Message: message},
	})
}
