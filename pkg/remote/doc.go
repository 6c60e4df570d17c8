// Package remote provides an Arduino-style pin model for a board
// reachable over a Firmata connection.
//
// A Device caches pin state locally so that reads return immediately
// from the most recently reported values instead of round-tripping to
// the board. Writes update the cache and send fire-and-forget commands.
//
// # Lifecycle
//
// Construct a Device over a firmata.Client, then Connect. Once the
// stream is ready the device queries the board's capability report,
// sizes its pin cache from the response (every pin starts in OUTPUT
// mode) and raises the device-ready signal. Operations invoked before
// device-ready see an empty cache and degrade to no-ops; that ordering
// is the caller's contract.
//
// # Pin Model
//
// Digital pins are grouped into ports of 8, each cached as one packed
// byte. Pins configured as INPUT are subscribed for reporting on the
// board; their cached bits track incoming reports. OUTPUT bits track
// the last value written by the host. Analog channels cache the last
// reported magnitude.
//
// Operations silently correct compatible mode mismatches (ANALOG→INPUT
// for a digital read, PWM→OUTPUT for a digital write, INPUT→ANALOG for
// an analog read, OUTPUT→PWM for an analog write). Incompatible
// operations are no-ops returning a sentinel value; the device never
// raises an error for them.
//
// # Concurrency
//
// A single mutex covers all cached pin state and the mode-transition
// decisions, making each public operation atomic with respect to
// concurrent reads, writes and incoming reports. Events are delivered
// synchronously, outside the cache lock, in the goroutine that
// triggered them.
package remote
