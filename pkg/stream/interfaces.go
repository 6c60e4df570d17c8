package stream

import (
	"context"
	"errors"
	"io"
)

// Stream errors.
var (
	ErrNotOpen     = errors.New("stream not open")
	ErrAlreadyOpen = errors.New("stream already open")
	ErrClosed      = errors.New("stream closed")
)

// Stream represents an ordered bidirectional byte pipe to a board.
// Implemented by SerialStream, TCPStream and Loopback.
type Stream interface {
	io.ReadWriteCloser

	// Open establishes the connection. The context bounds connection
	// establishment only, not subsequent reads and writes.
	Open(ctx context.Context) error

	// Flush forces buffered output toward the device.
	// Implementations without an output buffer return nil.
	Flush() error
}

// Compile-time interface satisfaction checks.
var (
	_ Stream = (*SerialStream)(nil)
	_ Stream = (*TCPStream)(nil)
	_ Stream = (*Loopback)(nil)
)
