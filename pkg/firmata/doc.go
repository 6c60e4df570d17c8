// Package firmata implements the host side of the Firmata protocol.
//
// Firmata is the MIDI-derived command/event protocol spoken by common
// Arduino firmwares. The Client owns a byte stream, serializes outgoing
// commands behind a framing lock, and runs a reader goroutine that
// decodes incoming messages and dispatches them to registered handlers.
//
// # Outgoing Commands
//
// Multi-byte commands must not interleave. Convenience senders
// (SendDigitalPort, SendAnalog, SendPinMode, ...) take the framing lock
// internally; callers composing commands byte-by-byte bracket their
// writes with Lock/Unlock:
//
//	client.Lock()
//	client.Write(byte(CommandStartSysex))
//	client.Write(byte(SysexCapabilityQuery))
//	client.Write(byte(CommandEndSysex))
//	client.Flush()
//	client.Unlock()
//
// # Incoming Messages
//
// The reader goroutine decodes digital port values, analog values,
// protocol version reports, and sysex messages (capability responses
// and string data get dedicated callbacks; everything else is delivered
// raw). Handlers run synchronously in the reader goroutine and must not
// block.
//
// # Connection Signals
//
// Begin raises connection-ready after the stream opens, or
// connection-failed if the open fails. A read error after Begin raises
// connection-lost. The client never reconnects on its own.
package firmata
