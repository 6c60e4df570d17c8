package stream

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// TCPConfig configures a TCP stream.
type TCPConfig struct {
	// Address is the host:port of the board (e.g. "192.168.4.1:3030").
	Address string

	// ConnectTimeout bounds connection establishment when the caller's
	// context carries no deadline. Default: 10s.
	ConnectTimeout time.Duration
}

// TCPStream is a Stream backed by a TCP socket, for boards running a
// network Firmata firmware (e.g. StandardFirmataWiFi or an ESP bridge).
type TCPStream struct {
	config TCPConfig

	mu   sync.Mutex
	conn net.Conn
}

// NewTCPStream creates a TCP stream for the given configuration.
// The connection is not dialed until Open is called.
func NewTCPStream(config TCPConfig) *TCPStream {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	return &TCPStream{config: config}
}

// Open dials the board.
func (s *TCPStream) Open(ctx context.Context) error {
	// Apply timeout from config if context doesn't have one
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ConnectTimeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return ErrAlreadyOpen
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("dial %s failed: %w", s.config.Address, err)
	}

	s.conn = conn
	return nil
}

// Read reads bytes from the socket.
func (s *TCPStream) Read(p []byte) (int, error) {
	conn := s.currentConn()
	if conn == nil {
		return 0, ErrNotOpen
	}
	return conn.Read(p)
}

// Write writes bytes to the socket.
func (s *TCPStream) Write(p []byte) (int, error) {
	conn := s.currentConn()
	if conn == nil {
		return 0, ErrNotOpen
	}
	return conn.Write(p)
}

// Flush is a no-op; TCP writes are not buffered at this layer.
func (s *TCPStream) Flush() error {
	if s.currentConn() == nil {
		return ErrNotOpen
	}
	return nil
}

// Close closes the socket. Safe to call when not open.
func (s *TCPStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// RemoteAddr returns the remote address, or nil when not open.
func (s *TCPStream) RemoteAddr() net.Addr {
	conn := s.currentConn()
	if conn == nil {
		return nil
	}
	return conn.RemoteAddr()
}

func (s *TCPStream) currentConn() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}
