// Package stream provides byte-stream connections to remote boards.
//
// A Stream is the raw transport underneath the Firmata protocol layer:
// an ordered, bidirectional byte pipe with explicit open/close and an
// optional flush. Three implementations are provided:
//   - SerialStream: a USB/UART serial port (github.com/tarm/serial)
//   - TCPStream: a network socket for WiFi/Ethernet boards
//   - Loopback: an in-memory pipe pair for tests
//
// Streams carry no message framing of their own; Firmata messages are
// self-delimiting at the protocol layer.
package stream
