package trace

import (
	"time"
)

// Event represents a trace event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the connection cycle (UUID, minted on each
	// successful capability discovery). Empty before the first cycle.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates traffic flow, where applicable.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"6,keyasint,omitempty"` // Stream layer raw bytes
	Report      *ReportEvent      `cbor:"7,keyasint,omitempty"` // Decoded pin reports
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"` // Connection state
	Error       *ErrorEvent       `cbor:"9,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of traffic flow.
type Direction uint8

const (
	// DirectionIn indicates traffic from the board to the host.
	DirectionIn Direction = 0
	// DirectionOut indicates traffic from the host to the board.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerStream is the raw byte-stream layer.
	LayerStream Layer = 0
	// LayerProtocol is the Firmata message layer.
	LayerProtocol Layer = 1
	// LayerDevice is the pin-model layer.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerStream:
		return "STREAM"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates raw stream traffic.
	CategoryFrame Category = 0
	// CategoryReport indicates a decoded pin report.
	CategoryReport Category = 1
	// CategoryState indicates a connection state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryReport:
		return "REPORT"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the stream layer.
type FrameEvent struct {
	// Size is the chunk size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (may be truncated for large chunks).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MaxFrameData caps the bytes stored per frame event.
const MaxFrameData = 64

// ReportKind distinguishes report payloads.
type ReportKind uint8

const (
	// ReportDigital is a digital port report. Index is the port number
	// and Value the merged port byte.
	ReportDigital ReportKind = 0
	// ReportAnalog is an analog channel report. Index is the channel
	// and Value the reported magnitude.
	ReportAnalog ReportKind = 1
)

// String returns the report kind name.
func (k ReportKind) String() string {
	switch k {
	case ReportDigital:
		return "DIGITAL"
	case ReportAnalog:
		return "ANALOG"
	default:
		return "UNKNOWN"
	}
}

// ReportEvent captures a decoded pin report.
type ReportEvent struct {
	// Kind distinguishes digital port reports from analog channel reports.
	Kind ReportKind `cbor:"1,keyasint"`

	// Index is the port number (digital) or channel number (analog).
	Index uint8 `cbor:"2,keyasint"`

	// Value is the merged port byte (digital) or magnitude (analog).
	Value uint16 `cbor:"3,keyasint"`
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state name (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEvent captures errors at any layer.
type ErrorEvent struct {
	// Context describes what operation was being performed.
	Context string `cbor:"1,keyasint,omitempty"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`
}
