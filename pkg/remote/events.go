package remote

import "sync"

// deviceEvents holds subscriber lists per signal kind. Registration
// appends; delivery is synchronous in the goroutine that raised the
// signal and always happens outside the device's cache lock.
type deviceEvents struct {
	mu sync.RWMutex

	deviceReady      []func()
	connectionFailed []func(message string)
	connectionLost   []func(message string)

	digitalPinChanged []func(pin uint8, state PinState)
	analogPinChanged  []func(channel uint8, value uint16)
	sysexReceived     []func(cmd byte, payload []byte)
	stringReceived    []func(message string)
}

// OnDeviceReady registers a handler for the device-ready signal, raised
// after each successful capability discovery.
func (d *Device) OnDeviceReady(fn func()) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.deviceReady = append(d.events.deviceReady, fn)
}

// OnConnectionFailed registers a handler for connection failures.
func (d *Device) OnConnectionFailed(fn func(message string)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.connectionFailed = append(d.events.connectionFailed, fn)
}

// OnConnectionLost registers a handler for loss of an established
// connection.
func (d *Device) OnConnectionLost(fn func(message string)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.connectionLost = append(d.events.connectionLost, fn)
}

// OnDigitalPinChanged registers a handler invoked once per pin whose
// reported digital state changed.
func (d *Device) OnDigitalPinChanged(fn func(pin uint8, state PinState)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.digitalPinChanged = append(d.events.digitalPinChanged, fn)
}

// OnAnalogPinChanged registers a handler invoked for every analog
// report, without de-duplication.
func (d *Device) OnAnalogPinChanged(fn func(channel uint8, value uint16)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.analogPinChanged = append(d.events.analogPinChanged, fn)
}

// OnSysexReceived registers a handler for sysex messages the device
// does not consume itself.
func (d *Device) OnSysexReceived(fn func(cmd byte, payload []byte)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.sysexReceived = append(d.events.sysexReceived, fn)
}

// OnStringReceived registers a handler for text messages from the
// firmware.
func (d *Device) OnStringReceived(fn func(message string)) {
	d.events.mu.Lock()
	defer d.events.mu.Unlock()
	d.events.stringReceived = append(d.events.stringReceived, fn)
}

func (e *deviceEvents) emitDeviceReady() {
	e.mu.RLock()
	fns := e.deviceReady
	e.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (e *deviceEvents) emitConnectionFailed(message string) {
	e.mu.RLock()
	fns := e.connectionFailed
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}

func (e *deviceEvents) emitConnectionLost(message string) {
	e.mu.RLock()
	fns := e.connectionLost
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}

func (e *deviceEvents) emitDigitalPinChanged(pin uint8, state PinState) {
	e.mu.RLock()
	fns := e.digitalPinChanged
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(pin, state)
	}
}

func (e *deviceEvents) emitAnalogPinChanged(channel uint8, value uint16) {
	e.mu.RLock()
	fns := e.analogPinChanged
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(channel, value)
	}
}

func (e *deviceEvents) emitSysexReceived(cmd byte, payload []byte) {
	e.mu.RLock()
	fns := e.sysexReceived
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(cmd, payload)
	}
}

func (e *deviceEvents) emitStringReceived(message string) {
	e.mu.RLock()
	fns := e.stringReceived
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}
