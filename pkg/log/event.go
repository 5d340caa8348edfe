package log

import "time"

// Event represents a transaction log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the console session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the console.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Backend is the base URL of the register API.
	Backend string `cbor:"6,keyasint,omitempty"`

	// Address is the register address involved, if any.
	Address string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Exchange    *ExchangeEvent    `cbor:"10,keyasint,omitempty"` // HTTP layer
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Editor state
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates a message received from the register API.
	DirectionIn Direction = 0
	// DirectionOut indicates a message sent to the register API.
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

// Layer indicates which part of the console captured the event.
type Layer uint8

const (
	// LayerHTTP is the register API client.
	LayerHTTP Layer = 0
	// LayerEditor is the register editor view-model.
	LayerEditor Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerHTTP:
		return "HTTP"
	case LayerEditor:
		return "EDITOR"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a request or response.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Operation is the register operation an exchange belongs to.
type Operation uint8

const (
	// OpRead is GET /api/{address}?size={n}.
	OpRead Operation = 0
	// OpWrite is POST /api/{address}.
	OpWrite Operation = 1
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// ExchangeEvent captures one half of a register API call.
type ExchangeEvent struct {
	// Type distinguishes request from response.
	Type MessageType `cbor:"1,keyasint"`

	// Sequence correlates request/response pairs within a session.
	Sequence uint32 `cbor:"2,keyasint"`

	// Operation is read or write.
	Operation Operation `cbor:"3,keyasint"`

	// Size is the requested byte count (reads only).
	Size int `cbor:"4,keyasint,omitempty"`

	// Data is the hex payload sent (writes) or received.
	Data string `cbor:"5,keyasint,omitempty"`

	// StatusCode is the HTTP status (responses only).
	StatusCode int `cbor:"6,keyasint,omitempty"`

	// Duration is the round trip time (responses only).
	// Stored as nanoseconds.
	Duration *time.Duration `cbor:"7,keyasint,omitempty"`
}

// MessageType distinguishes request/response.
type MessageType uint8

const (
	// MessageTypeRequest indicates a request message.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse indicates a response message.
	MessageTypeResponse MessageType = 1
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures editor state transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the HTTP status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
