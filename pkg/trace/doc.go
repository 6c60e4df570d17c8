// Package trace provides protocol tracing for remote-wiring sessions.
//
// Events are captured at three layers: raw stream traffic, decoded
// protocol reports, and device state changes. Applications pass a
// Logger implementation to the firmata client and the remote device;
// pass nil or NoopLogger to disable tracing.
//
// Events are encoded as CBOR with integer keys for compactness, one
// event per record, appended to a trace file. Reader decodes a trace
// file back into events for offline inspection.
//
// Tracing must never disrupt the session: encoding errors are dropped
// and loggers are expected to return quickly.
package trace
