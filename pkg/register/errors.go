package register

import (
	"errors"
	"fmt"
)

// Validation failures. They are wrapped in a *ValidationError when they
// come from operator input.
var (
	ErrEmpty            = errors.New("empty value")
	ErrOddLength        = errors.New("hex data must have an even number of digits")
	ErrInvalidHex       = errors.New("not a hex string")
	ErrValueTooLarge    = errors.New("hex data longer than 8 bytes")
	ErrValueOverflow    = errors.New("value does not fit in register size")
	ErrInvalidAddress   = errors.New("address must be 0x followed by up to 4 hex digits")
	ErrInvalidSize      = errors.New("size must be between 1 and 8 bytes")
	ErrInvalidNumber    = errors.New("not an unsigned integer")
	ErrNoSuchEntry      = errors.New("no such catalog entry")
	ErrShortData        = errors.New("not enough data for transform")
	ErrUnknownTransform = errors.New("unknown transform")
)

// ValidationError reports operator input that was rejected.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadError reports a catalog file that could not be used.
type LoadError struct {
	File    string
	Index   int
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Index >= 0 {
		msg = fmt.Sprintf("entry %d: %s", e.Index, msg)
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
