package firmata

import "sync"

// handlerRegistry holds subscriber lists per signal kind. Registration
// appends; there is no unsubscribe. Delivery is synchronous in the
// emitting goroutine (the reader goroutine for protocol signals).
type handlerRegistry struct {
	mu sync.RWMutex

	connectionReady  []func()
	connectionFailed []func(message string)
	connectionLost   []func(message string)

	digitalPortValue   []func(port uint8, value uint8)
	analogValue        []func(channel uint8, value uint16)
	capabilityResponse []func(report []byte)
	sysex              []func(cmd SysexCommand, payload []byte)
	stringData         []func(message string)
	protocolVersion    []func(major, minor uint8)
}

// OnConnectionReady registers a handler for the connection-ready signal.
func (c *Client) OnConnectionReady(fn func()) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.connectionReady = append(c.handlers.connectionReady, fn)
}

// OnConnectionFailed registers a handler for the connection-failed signal.
func (c *Client) OnConnectionFailed(fn func(message string)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.connectionFailed = append(c.handlers.connectionFailed, fn)
}

// OnConnectionLost registers a handler for the connection-lost signal.
func (c *Client) OnConnectionLost(fn func(message string)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.connectionLost = append(c.handlers.connectionLost, fn)
}

// OnDigitalPortValue registers a handler for digital port reports.
func (c *Client) OnDigitalPortValue(fn func(port uint8, value uint8)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.digitalPortValue = append(c.handlers.digitalPortValue, fn)
}

// OnAnalogValue registers a handler for analog channel reports.
func (c *Client) OnAnalogValue(fn func(channel uint8, value uint16)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.analogValue = append(c.handlers.analogValue, fn)
}

// OnCapabilityResponse registers a handler for capability reports.
func (c *Client) OnCapabilityResponse(fn func(report []byte)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.capabilityResponse = append(c.handlers.capabilityResponse, fn)
}

// OnSysex registers a handler for sysex messages without a dedicated
// signal (capability responses and string data are delivered through
// their own handlers, not here).
func (c *Client) OnSysex(fn func(cmd SysexCommand, payload []byte)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.sysex = append(c.handlers.sysex, fn)
}

// OnString registers a handler for text messages from the firmware.
func (c *Client) OnString(fn func(message string)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.stringData = append(c.handlers.stringData, fn)
}

// OnProtocolVersion registers a handler for protocol version reports.
func (c *Client) OnProtocolVersion(fn func(major, minor uint8)) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.protocolVersion = append(c.handlers.protocolVersion, fn)
}

func (r *handlerRegistry) emitConnectionReady() {
	r.mu.RLock()
	fns := r.connectionReady
	r.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (r *handlerRegistry) emitConnectionFailed(message string) {
	r.mu.RLock()
	fns := r.connectionFailed
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}

func (r *handlerRegistry) emitConnectionLost(message string) {
	r.mu.RLock()
	fns := r.connectionLost
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}

func (r *handlerRegistry) emitDigitalPortValue(port uint8, value uint8) {
	r.mu.RLock()
	fns := r.digitalPortValue
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(port, value)
	}
}

func (r *handlerRegistry) emitAnalogValue(channel uint8, value uint16) {
	r.mu.RLock()
	fns := r.analogValue
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(channel, value)
	}
}

func (r *handlerRegistry) emitCapabilityResponse(report []byte) {
	r.mu.RLock()
	fns := r.capabilityResponse
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(report)
	}
}

func (r *handlerRegistry) emitSysex(cmd SysexCommand, payload []byte) {
	r.mu.RLock()
	fns := r.sysex
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(cmd, payload)
	}
}

func (r *handlerRegistry) emitString(message string) {
	r.mu.RLock()
	fns := r.stringData
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(message)
	}
}

func (r *handlerRegistry) emitProtocolVersion(major, minor uint8) {
	r.mu.RLock()
	fns := r.protocolVersion
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(major, minor)
	}
}
