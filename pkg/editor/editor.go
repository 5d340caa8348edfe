// Package editor implements the register editor view-model.
//
// An Editor holds the active register (address and size) and its value in
// two representations, raw hex in device byte order and an unsigned integer.
// Editing one representation re-derives the other. Loading and submitting
// go through a regapi.API and move the editor through its states:
//
//	idle -> loading -> loaded -> submitting -> loaded
//	            \                    \
//	             +-> error <----------+
//
// An Editor is safe for concurrent use. Network calls run without holding
// the lock; when requests overlap, only the most recently issued one is
// applied and earlier completions return ErrSuperseded.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vitolink/regconsole/pkg/log"
	"github.com/vitolink/regconsole/pkg/regapi"
	"github.com/vitolink/regconsole/pkg/register"
)

// Defaults for a fresh editor.
const (
	DefaultAddress = "0x0800"
	DefaultSize    = 2
)

var (
	// ErrNoData is returned by Submit when there is no value to send.
	ErrNoData = errors.New("no data to submit")

	// ErrSuperseded is returned when a newer request was issued while this
	// one was in flight. Its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrSizeMismatch is returned for hex data that does not match the
	// register size.
	ErrSizeMismatch = errors.New("hex data length does not match size")
)

// SupersededWriteError is returned by Submit when the backend confirmed the
// write but a newer request was issued meanwhile. The confirmed value is
// not applied to the editor.
type SupersededWriteError struct {
	Address string
	Data    string
}

func (e *SupersededWriteError) Error() string {
	return fmt.Sprintf("write %s confirmed %s: %v", e.Address, e.Data, ErrSuperseded)
}

func (e *SupersededWriteError) Unwrap() error {
	return ErrSuperseded
}

// Editor is the register editor view-model.
type Editor struct {
	api     regapi.API
	catalog register.Catalog
	logger  log.Logger

	mu        sync.Mutex
	address   string
	size      int
	name      string
	selected  int
	transform register.Transform
	hex       *string
	unsigned  *uint64
	state     State
	err       error

	// issued counts requests; only the latest one is applied.
	issued uint64
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger records state changes as transaction log events.
func WithLogger(l log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an editor on DefaultAddress. catalog may be nil.
func New(api regapi.API, catalog register.Catalog, opts ...Option) *Editor {
	e := &Editor{
		api:      api,
		catalog:  catalog,
		logger:   log.NoopLogger{},
		address:  DefaultAddress,
		size:     DefaultSize,
		selected: -1,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if d, ok := catalog.FindAddress(DefaultAddress); ok {
		e.name, e.transform = d.Name, d.Transform
	}
	return e
}

// Catalog returns the registers offered for selection.
func (e *Editor) Catalog() register.Catalog {
	return e.catalog
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Address:   e.address,
		Size:      e.size,
		Name:      e.name,
		Selected:  e.selected,
		Transform: e.transform,
		State:     e.state,
	}
	if e.hex != nil {
		h := *e.hex
		s.HexData = &h
		if e.transform != register.TransformNone {
			s.Reading, _ = e.transform.Format(h)
		}
	}
	if e.unsigned != nil {
		u := *e.unsigned
		s.Unsigned = &u
	}
	if e.err != nil {
		s.Err = e.err.Error()
	}
	return s
}

// SelectIndex selects catalog entry i and reads it. Entries sharing an
// address are selected independently but issue the same read.
func (e *Editor) SelectIndex(ctx context.Context, i int) error {
	d, err := e.catalog.At(i)
	if err != nil {
		return err
	}
	return e.selectEntry(ctx, d, i)
}

// Select makes d the active register, discards the current value and
// reads it.
func (e *Editor) Select(ctx context.Context, d register.Descriptor) error {
	return e.selectEntry(ctx, d, -1)
}

func (e *Editor) selectEntry(ctx context.Context, d register.Descriptor, index int) error {
	if err := d.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	e.address, e.size = d.Address, d.Size
	e.name, e.transform = d.Name, d.Transform
	e.selected = index
	e.clearValue()
	ticket := e.begin(StateLoading, "select "+d.Name)
	e.mu.Unlock()

	return e.load(ctx, ticket, d.Address, d.Size)
}

// Refresh re-reads the active register, overwriting both representations.
func (e *Editor) Refresh(ctx context.Context) error {
	e.mu.Lock()
	address, size := e.address, e.size
	ticket := e.begin(StateLoading, "refresh")
	e.mu.Unlock()

	return e.load(ctx, ticket, address, size)
}

// Submit sends the hex value to the backend and replaces the local value
// with the one the backend confirms.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.hex == nil {
		e.mu.Unlock()
		return ErrNoData
	}
	address, data := e.address, *e.hex
	ticket := e.begin(StateSubmitting, "submit "+data)
	e.mu.Unlock()

	resp, err := e.api.Set(ctx, address, data)

	e.mu.Lock()
	defer e.mu.Unlock()
	if ticket != e.issued {
		if err == nil {
			return &SupersededWriteError{Address: address, Data: resp.Data}
		}
		return ErrSuperseded
	}
	if err != nil {
		e.fail(fmt.Errorf("write %s: %w", address, err))
		return err
	}
	return e.apply(resp.Data)
}

// EditHex replaces the hex value and re-derives the unsigned value. No
// request is made. Invalid input leaves the editor unchanged.
func (e *Editor) EditHex(text string) error {
	data, err := register.ParseHexData(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(data) != 2*e.size {
		return &register.ValidationError{Field: "data", Value: text, Err: ErrSizeMismatch}
	}
	v, err := register.HexToUnsigned(data)
	if err != nil {
		return &register.ValidationError{Field: "data", Value: text, Err: err}
	}
	e.hex, e.unsigned = &data, &v
	return nil
}

// EditUnsigned replaces the unsigned value and re-derives the hex value for
// the current size. No request is made.
func (e *Editor) EditUnsigned(text string) error {
	v, err := register.ParseUnsigned(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := register.UnsignedToHex(v, e.size)
	if err != nil {
		return &register.ValidationError{Field: "unsigned data", Value: text, Err: err}
	}
	e.hex, e.unsigned = &data, &v
	return nil
}

// EditSize changes the register size. A different size discards the value
// and the result of any request in flight; it is not re-read until Refresh.
func (e *Editor) EditSize(text string) error {
	n, err := register.ParseSize(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if n != e.size {
		e.size = n
		e.clearValue()
		e.supersede(fmt.Sprintf("size %d", n))
	}
	return nil
}

// EditAddress changes the active address without reading it. A different
// address discards the value, the catalog selection and the result of any
// request in flight.
func (e *Editor) EditAddress(text string) error {
	addr, err := register.ParseAddress(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if addr == e.address {
		return nil
	}
	e.address = addr
	e.selected = -1
	e.name, e.transform = "", register.TransformNone
	if d, ok := e.catalog.FindAddress(addr); ok {
		e.name, e.transform = d.Name, d.Transform
	}
	e.clearValue()
	e.supersede("address " + addr)
	return nil
}

func (e *Editor) load(ctx context.Context, ticket uint64, address string, size int) error {
	resp, err := e.api.Fetch(ctx, address, size)

	e.mu.Lock()
	defer e.mu.Unlock()
	if ticket != e.issued {
		return ErrSuperseded
	}
	if err != nil {
		e.fail(fmt.Errorf("read %s: %w", address, err))
		return err
	}
	return e.apply(resp.Data)
}

// apply stores backend data and derives the unsigned value.
// Called with e.mu held.
func (e *Editor) apply(raw string) error {
	data, err := register.ParseHexData(raw)
	if err != nil {
		e.fail(fmt.Errorf("backend returned %w", err))
		return err
	}
	v, err := register.HexToUnsigned(data)
	if err != nil {
		e.fail(fmt.Errorf("backend returned %q: %w", data, err))
		return err
	}

	e.hex, e.unsigned = &data, &v
	e.err = nil
	e.transition(StateLoaded, "")
	return nil
}

// begin takes a ticket for a new request. Called with e.mu held.
func (e *Editor) begin(next State, reason string) uint64 {
	e.issued++
	e.err = nil
	e.transition(next, reason)
	return e.issued
}

// supersede invalidates the request in flight, whose result belongs to the
// previous address or size. A busy editor returns to idle. Called with
// e.mu held.
func (e *Editor) supersede(reason string) {
	e.issued++
	if e.state.Busy() {
		e.transition(StateIdle, reason)
	}
}

// fail records err and enters the error state. Called with e.mu held.
func (e *Editor) fail(err error) {
	e.err = err
	e.transition(StateError, err.Error())
	e.logger.Log(log.Event{
		Layer:    log.LayerEditor,
		Category: log.CategoryError,
		Address:  e.address,
		Error: &log.ErrorEventData{
			Layer:   log.LayerEditor,
			Message: err.Error(),
		},
	})
}

// clearValue discards both representations. Called with e.mu held.
func (e *Editor) clearValue() {
	e.hex, e.unsigned = nil, nil
}

// transition moves to next and logs the change. Called with e.mu held.
func (e *Editor) transition(next State, reason string) {
	prev := e.state
	e.state = next
	e.logger.Log(log.Event{
		Layer:    log.LayerEditor,
		Category: log.CategoryState,
		Address:  e.address,
		StateChange: &log.StateChangeEvent{
			OldState: string(prev),
			NewState: string(next),
			Reason:   reason,
		},
	})
}
