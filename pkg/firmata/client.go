package firmata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/remote-wiring/remote-wiring-go/pkg/stream"
	"github.com/remote-wiring/remote-wiring-go/pkg/trace"
)

// Client speaks the Firmata protocol over a byte stream.
//
// All outgoing traffic is serialized behind a framing lock so that
// multi-byte commands from concurrent callers never interleave on the
// wire. Incoming traffic is decoded by a reader goroutine started by
// Begin and delivered synchronously to registered handlers.
type Client struct {
	stream stream.Stream
	tracer trace.Logger

	// Framing lock. Held for the duration of a multi-byte command.
	sendMu sync.Mutex
	txBuf  []byte

	mu      sync.Mutex
	running bool
	closing bool
	wg      sync.WaitGroup

	handlers handlerRegistry
	parser   parser
}

// Option configures a Client.
type Option func(*Client)

// WithTracer attaches a trace logger recording raw stream traffic.
func WithTracer(tracer trace.Logger) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewClient creates a client over the given stream.
// The stream is not opened until Begin is called.
func NewClient(s stream.Stream, opts ...Option) *Client {
	c := &Client{
		stream: s,
		tracer: trace.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin opens the stream and starts the reader goroutine.
// On success the connection-ready signal is raised; on failure the
// connection-failed signal is raised and the error returned.
func (c *Client) Begin(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return stream.ErrAlreadyOpen
	}
	c.mu.Unlock()

	if err := c.stream.Open(ctx); err != nil {
		err = fmt.Errorf("failed to open stream: %w", err)
		c.handlers.emitConnectionFailed(err.Error())
		return err
	}

	c.mu.Lock()
	c.running = true
	c.closing = false
	c.mu.Unlock()

	c.wg.Add(1)
	go c.readLoop()

	c.handlers.emitConnectionReady()
	return nil
}

// Finish closes the stream and stops the reader goroutine.
// No connection-lost signal is raised for a deliberate shutdown.
func (c *Client) Finish() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	c.mu.Unlock()

	err := c.stream.Close()
	c.wg.Wait()

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	return err
}

// Lock acquires the framing lock. Callers composing a command
// byte-by-byte hold it across Write calls and the final Flush.
func (c *Client) Lock() {
	c.sendMu.Lock()
}

// Unlock releases the framing lock.
func (c *Client) Unlock() {
	c.sendMu.Unlock()
}

// Write buffers one outgoing byte. The framing lock must be held.
func (c *Client) Write(b byte) {
	c.txBuf = append(c.txBuf, b)
}

// Flush writes the buffered command to the stream. The framing lock
// must be held.
func (c *Client) Flush() error {
	if len(c.txBuf) == 0 {
		return nil
	}
	data := c.txBuf
	c.txBuf = c.txBuf[:0]

	if _, err := c.stream.Write(data); err != nil {
		return fmt.Errorf("stream write failed: %w", err)
	}
	c.traceFrame(trace.DirectionOut, data)
	return c.stream.Flush()
}

// SendDigitalPort sends the full 8-bit value of a digital port.
func (c *Client) SendDigitalPort(port uint8, value uint8) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandDigitalMessage) | port&0x0F)
	c.Write(value & 0x7F)
	c.Write(value >> 7)
	return c.Flush()
}

// SendAnalog sends an analog value to a pin. Pins above 15 and values
// above 14 bits use the extended analog sysex form.
func (c *Client) SendAnalog(pin uint8, value uint16) error {
	c.Lock()
	defer c.Unlock()

	if pin > 15 || value > 0x3FFF {
		c.Write(byte(CommandStartSysex))
		c.Write(byte(SysexExtendedAnalog))
		c.Write(pin & 0x7F)
		c.Write(byte(value & 0x7F))
		c.Write(byte(value >> 7 & 0x7F))
		if value > 0x3FFF {
			c.Write(byte(value >> 14 & 0x7F))
		}
		c.Write(byte(CommandEndSysex))
	} else {
		c.Write(byte(CommandAnalogMessage) | pin&0x0F)
		c.Write(byte(value & 0x7F))
		c.Write(byte(value >> 7))
	}
	return c.Flush()
}

// SendPinMode sends a pin mode change command.
func (c *Client) SendPinMode(pin uint8, mode byte) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandSetPinMode))
	c.Write(pin)
	c.Write(mode)
	return c.Flush()
}

// SendReportDigital sends the reporting mask for a digital port.
func (c *Client) SendReportDigital(port uint8, mask uint8) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandReportDigital) | port&0x0F)
	c.Write(mask)
	return c.Flush()
}

// SendReportAnalog enables or disables reporting for an analog channel.
func (c *Client) SendReportAnalog(channel uint8, enable bool) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandReportAnalog) | channel&0x0F)
	if enable {
		c.Write(1)
	} else {
		c.Write(0)
	}
	return c.Flush()
}

// SendCapabilityQuery asks the firmware for its capability report.
func (c *Client) SendCapabilityQuery() error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandStartSysex))
	c.Write(byte(SysexCapabilityQuery))
	c.Write(byte(CommandEndSysex))
	return c.Flush()
}

// SendString sends a text message as sysex string data. Characters are
// transmitted as 7-bit pairs, so arbitrary byte values survive.
func (c *Client) SendString(s string) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandStartSysex))
	c.Write(byte(SysexStringData))
	for i := 0; i < len(s); i++ {
		c.Write(s[i] & 0x7F)
		c.Write(s[i] >> 7)
	}
	c.Write(byte(CommandEndSysex))
	return c.Flush()
}

// SendSysex sends an arbitrary sysex message. Payload bytes must be
// 7-bit clean; high bits are masked off.
func (c *Client) SendSysex(cmd SysexCommand, payload []byte) error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandStartSysex))
	c.Write(byte(cmd))
	for _, b := range payload {
		c.Write(b & 0x7F)
	}
	c.Write(byte(CommandEndSysex))
	return c.Flush()
}

// SendReset asks the firmware to reset to its default state.
func (c *Client) SendReset() error {
	c.Lock()
	defer c.Unlock()

	c.Write(byte(CommandSystemReset))
	return c.Flush()
}

// readLoop reads from the stream until it closes, feeding the parser.
func (c *Client) readLoop() {
	defer c.wg.Done()

	buf := make([]byte, 256)
	for {
		n, err := c.stream.Read(buf)
		if n > 0 {
			c.traceFrame(trace.DirectionIn, buf[:n])
			for _, b := range buf[:n] {
				c.processByte(b)
			}
		}
		if err != nil {
			c.mu.Lock()
			closing := c.closing
			c.mu.Unlock()

			if !closing {
				c.handlers.emitConnectionLost(fmt.Sprintf("stream read failed: %v", err))
			}
			return
		}
	}
}

func (c *Client) traceFrame(dir trace.Direction, data []byte) {
	frame := &trace.FrameEvent{Size: len(data)}
	if len(data) > trace.MaxFrameData {
		frame.Data = append([]byte(nil), data[:trace.MaxFrameData]...)
		frame.Truncated = true
	} else {
		frame.Data = append([]byte(nil), data...)
	}
	c.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     trace.LayerStream,
		Category:  trace.CategoryFrame,
		Frame:     frame,
	})
}
