package editor

import (
	"strconv"

	"github.com/vitolink/regconsole/pkg/register"
)

// State is the network state of the editor.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateSubmitting State = "submitting"
	StateError      State = "error"
)

// Busy reports whether a request is in flight.
func (s State) Busy() bool {
	return s == StateLoading || s == StateSubmitting
}

// Snapshot is a copy of the editor state for rendering.
type Snapshot struct {
	Address   string             `json:"address"`
	Size      int                `json:"size"`
	Name      string             `json:"name,omitempty"`
	Selected  int                `json:"selected"`
	Transform register.Transform `json:"transform,omitempty"`

	// HexData is the raw register value in device byte order.
	HexData *string `json:"data"`
	// Unsigned is HexData read as an unsigned integer.
	Unsigned *uint64 `json:"udata"`
	// Reading is HexData decoded with Transform, e.g. "21.5 °C".
	Reading string `json:"reading,omitempty"`

	State State  `json:"state"`
	Err   string `json:"error,omitempty"`
}

// HexText returns the hex value or "" when there is none.
func (s Snapshot) HexText() string {
	if s.HexData == nil {
		return ""
	}
	return *s.HexData
}

// UnsignedText returns the unsigned value in decimal or "" when there is none.
func (s Snapshot) UnsignedText() string {
	if s.Unsigned == nil {
		return ""
	}
	return strconv.FormatUint(*s.Unsigned, 10)
}

// HasValue reports whether both representations are present.
func (s Snapshot) HasValue() bool {
	return s.HexData != nil && s.Unsigned != nil
}
