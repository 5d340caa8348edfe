package register

import (
	"strconv"
	"strings"
)

// MaxSize is the largest register size in bytes whose value fits in a uint64.
const MaxSize = 8

// ZeroPad left pads value with '0' until it is digits characters long.
// Longer input is returned unchanged.
func ZeroPad(value string, digits int) string {
	if len(value) >= digits {
		return value
	}
	return strings.Repeat("0", digits-len(value)) + value
}

// SwapEndianness reverses the order of the 2-character byte groups in hex.
// Applied twice to an even-length string it returns the original.
//
// Byte groups are taken from the end of the string, so for odd-length input
// the leading character has no partner and is dropped.
func SwapEndianness(hex string) string {
	var b strings.Builder
	b.Grow(len(hex))
	for i := len(hex) - 2; i >= 0; i -= 2 {
		b.WriteString(hex[i : i+2])
	}
	return b.String()
}

// HexToUnsigned converts raw register data in device byte order to its
// unsigned value.
func HexToUnsigned(hex string) (uint64, error) {
	switch {
	case hex == "":
		return 0, ErrEmpty
	case len(hex)%2 != 0:
		return 0, ErrOddLength
	case len(hex) > 2*MaxSize:
		return 0, ErrValueTooLarge
	}

	v, err := strconv.ParseUint(SwapEndianness(hex), 16, 64)
	if err != nil {
		return 0, ErrInvalidHex
	}
	return v, nil
}

// UnsignedToHex converts v to raw register data of size bytes in device
// byte order. It fails with ErrValueOverflow if v needs more than size bytes.
func UnsignedToHex(v uint64, size int) (string, error) {
	if size < 1 || size > MaxSize {
		return "", ErrInvalidSize
	}
	padded := ZeroPad(strconv.FormatUint(v, 16), 2*size)
	if len(padded) > 2*size {
		return "", ErrValueOverflow
	}
	return SwapEndianness(padded), nil
}
