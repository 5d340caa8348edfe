package register

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// Transform names how the raw bytes of a register are read as a
// measurement. The empty transform means the register has no known meaning
// beyond its unsigned value.
type Transform string

const (
	TransformNone        Transform = ""
	TransformByte        Transform = "byte"
	TransformShort       Transform = "short"
	TransformTemperature Transform = "temperature"
	TransformPercentage  Transform = "percentage"
)

// Valid reports whether t is a known transform.
func (t Transform) Valid() bool {
	switch t {
	case TransformNone, TransformByte, TransformShort, TransformTemperature, TransformPercentage:
		return true
	}
	return false
}

// Unit returns the display unit of the transformed value.
func (t Transform) Unit() string {
	switch t {
	case TransformTemperature:
		return "°C"
	case TransformPercentage:
		return "%"
	}
	return ""
}

// Decode applies the transform to raw register data in device byte order.
// Temperatures are signed 16-bit tenths of a degree; percentages are
// half-percent steps in a single byte.
func (t Transform) Decode(data string) (float64, error) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return 0, ErrInvalidHex
	}

	switch t {
	case TransformByte, TransformPercentage:
		if len(raw) < 1 {
			return 0, ErrShortData
		}
		if t == TransformPercentage {
			return float64(raw[0]) / 2, nil
		}
		return float64(raw[0]), nil

	case TransformShort, TransformTemperature:
		if len(raw) < 2 {
			return 0, ErrShortData
		}
		v := float64(int16(binary.LittleEndian.Uint16(raw)))
		if t == TransformTemperature {
			return v / 10, nil
		}
		return v, nil
	}
	return 0, ErrUnknownTransform
}

// Format decodes data and renders it with its unit, e.g. "21.5 °C".
func (t Transform) Format(data string) (string, error) {
	v, err := t.Decode(data)
	if err != nil {
		return "", err
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit := t.Unit(); unit != "" {
		s += " " + unit
	}
	return s, nil
}
