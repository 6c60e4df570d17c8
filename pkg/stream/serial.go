package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig configures a serial stream.
type SerialConfig struct {
	// Device is the serial device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud is the baud rate. Default: 57600, the rate StandardFirmata ships with.
	Baud int

	// ReadTimeout bounds individual reads. Zero means blocking reads.
	ReadTimeout time.Duration
}

// DefaultBaud is the baud rate used by stock Firmata firmwares.
const DefaultBaud = 57600

// SerialStream is a Stream backed by a local serial port.
type SerialStream struct {
	config SerialConfig

	mu   sync.Mutex
	port *serial.Port
}

// NewSerialStream creates a serial stream for the given configuration.
// The port is not opened until Open is called.
func NewSerialStream(config SerialConfig) *SerialStream {
	if config.Baud == 0 {
		config.Baud = DefaultBaud
	}
	return &SerialStream{config: config}
}

// Open opens the serial port. The context is not consulted after the
// port open syscall begins; serial opens are effectively instantaneous.
func (s *SerialStream) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port != nil {
		return ErrAlreadyOpen
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        s.config.Device,
		Baud:        s.config.Baud,
		ReadTimeout: s.config.ReadTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.config.Device, err)
	}

	s.port = port
	return nil
}

// Read reads bytes from the serial port.
func (s *SerialStream) Read(p []byte) (int, error) {
	port := s.currentPort()
	if port == nil {
		return 0, ErrNotOpen
	}
	return port.Read(p)
}

// Write writes bytes to the serial port.
func (s *SerialStream) Write(p []byte) (int, error) {
	port := s.currentPort()
	if port == nil {
		return 0, ErrNotOpen
	}
	return port.Write(p)
}

// Flush is a no-op; writes go straight to the driver. The port's own
// Flush is not used here because it also discards un-read input.
func (s *SerialStream) Flush() error {
	if s.currentPort() == nil {
		return ErrNotOpen
	}
	return nil
}

// Close closes the serial port. Safe to call when not open.
func (s *SerialStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

func (s *SerialStream) currentPort() *serial.Port {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}
