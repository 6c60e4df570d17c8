package remote

// pinCache holds all cached pin state for one connection cycle. Every
// field is guarded by the owning Device's mutex; nothing here locks.
//
// The zero value is a valid empty cache (zero pins), which makes
// operations issued before capability discovery safe no-ops.
type pinCache struct {
	// modes holds the cached operating mode, one entry per pin.
	modes []PinMode

	// ports holds the packed digital state, one byte per 8 pins.
	// INPUT bits track board reports; OUTPUT bits track host writes.
	ports []uint8

	// subscriptions holds the per-port reporting mask. A pin's bit is
	// set exactly when that pin is in INPUT mode.
	subscriptions []uint8

	// analog holds the last reported magnitude per analog channel.
	analog []uint16
}

// newPinCache creates a cache sized from the capability table, with
// every pin defaulting to OUTPUT and all values zeroed.
func newPinCache(table CapabilityTable) *pinCache {
	numPorts := (table.TotalPins + 7) / 8

	c := &pinCache{
		modes:         make([]PinMode, table.TotalPins),
		ports:         make([]uint8, numPorts),
		subscriptions: make([]uint8, numPorts),
		analog:        make([]uint16, table.NumAnalogPins),
	}
	for i := range c.modes {
		c.modes[i] = PinModeOutput
	}
	return c
}

// portMask returns the port index and bit mask for a pin.
func portMask(pin uint8) (port int, mask uint8) {
	return int(pin) / 8, 1 << (pin % 8)
}

// validPin reports whether the pin index falls inside the cache.
func (c *pinCache) validPin(pin uint8) bool {
	return int(pin) < len(c.modes)
}

// validPort reports whether the port index falls inside the cache.
func (c *pinCache) validPort(port uint8) bool {
	return int(port) < len(c.ports)
}

// validChannel reports whether the analog channel falls inside the cache.
func (c *pinCache) validChannel(channel int) bool {
	return channel >= 0 && channel < len(c.analog)
}
