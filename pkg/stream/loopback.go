package stream

import (
	"context"
	"io"
)

// Loopback is one end of an in-memory stream pair. Writes on one end
// are readable on the other. Used by tests to script a fake board.
type Loopback struct {
	r *io.PipeReader
	w *io.PipeWriter
}

// NewLoopback creates a connected pair of streams. Bytes written to the
// host end are read from the device end and vice versa.
func NewLoopback() (host, device *Loopback) {
	hostRead, deviceWrite := io.Pipe()
	deviceRead, hostWrite := io.Pipe()

	host = &Loopback{r: hostRead, w: hostWrite}
	device = &Loopback{r: deviceRead, w: deviceWrite}
	return host, device
}

// Open is a no-op; loopback pairs are connected at creation.
func (l *Loopback) Open(ctx context.Context) error {
	return ctx.Err()
}

// Read reads bytes written by the peer end.
func (l *Loopback) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

// Write makes bytes available to the peer end. Write blocks until the
// peer consumes the bytes, matching io.Pipe semantics.
func (l *Loopback) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

// Flush is a no-op.
func (l *Loopback) Flush() error {
	return nil
}

// Close closes both directions. The peer's pending reads return io.EOF
// and its writes return io.ErrClosedPipe.
func (l *Loopback) Close() error {
	l.w.Close()
	return l.r.Close()
}
