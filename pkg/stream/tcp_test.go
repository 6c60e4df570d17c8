package stream

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestTCPStreamRoundTrip(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	s := NewTCPStream(TCPConfig{Address: listener.Addr().String()})

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Open(context.Background()); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open = %v, want ErrAlreadyOpen", err)
	}
	if s.RemoteAddr() == nil {
		t.Error("RemoteAddr is nil after Open")
	}

	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted")
	}
	defer server.Close()

	if _, err := s.Write([]byte{0xF9}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	buf := make([]byte, 1)
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatalf("server read failed: %v", err)
	}
	if buf[0] != 0xF9 {
		t.Errorf("server read %#x, want 0xf9", buf[0])
	}

	if _, err := server.Write([]byte{0xF9, 0x02, 0x06}); err != nil {
		t.Fatalf("server write failed: %v", err)
	}
	reply := make([]byte, 3)
	if _, err := io.ReadFull(s, reply); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if reply[1] != 0x02 || reply[2] != 0x06 {
		t.Errorf("Read got %v, want version bytes 2 and 6", reply)
	}
}

func TestTCPStreamNotOpen(t *testing.T) {
	s := NewTCPStream(TCPConfig{Address: "127.0.0.1:1"})

	if _, err := s.Read(make([]byte, 1)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Read = %v, want ErrNotOpen", err)
	}
	if _, err := s.Write([]byte{0x00}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Write = %v, want ErrNotOpen", err)
	}
	if err := s.Flush(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Flush = %v, want ErrNotOpen", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close when not open = %v, want nil", err)
	}
	if s.RemoteAddr() != nil {
		t.Error("RemoteAddr != nil when not open")
	}
}

func TestTCPStreamOpenFailure(t *testing.T) {
	// A listener that is immediately closed yields a refused port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	s := NewTCPStream(TCPConfig{Address: addr, ConnectTimeout: time.Second})

	if err := s.Open(context.Background()); err == nil {
		s.Close()
		t.Fatal("Open to closed port succeeded")
	}
}

func TestSerialStreamNotOpen(t *testing.T) {
	s := NewSerialStream(SerialConfig{Device: "/dev/null-board"})

	if s.config.Baud != DefaultBaud {
		t.Errorf("default baud = %d, want %d", s.config.Baud, DefaultBaud)
	}
	if _, err := s.Read(make([]byte, 1)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Read = %v, want ErrNotOpen", err)
	}
	if _, err := s.Write([]byte{0x00}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Write = %v, want ErrNotOpen", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close when not open = %v, want nil", err)
	}
}
