package register

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0x0800", "0x0800"},
		{"0X555A", "0x555a"},
		{" 0x3303 ", "0x3303"},
		{"0x1", "0x0001"},
	}

	for _, tt := range tests {
		got, err := ParseAddress(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseAddressRejects(t *testing.T) {
	for _, in := range []string{"", "0800", "0x", "0x12345", "0xzz", "address"} {
		_, err := ParseAddress(in)
		require.Error(t, err, in)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), in)
		assert.Equal(t, "address", verr.Field)
		assert.ErrorIs(t, err, ErrInvalidAddress)
	}
}

func TestAddressValue(t *testing.T) {
	v, err := AddressValue("0xA38F")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xa38f), v)
	assert.Equal(t, "0xa38f", FormatAddress(v))
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, in := range []string{"", "0", "9", "-1", "two"} {
		_, err := ParseSize(in)
		assert.ErrorIs(t, err, ErrInvalidSize, in)
	}
}

func TestParseHexData(t *testing.T) {
	got, err := ParseHexData("0x0A1B")
	require.NoError(t, err)
	assert.Equal(t, "0a1b", got)

	got, err = ParseHexData(" 6400 ")
	require.NoError(t, err)
	assert.Equal(t, "6400", got)
}

func TestParseHexDataRejects(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"0x", ErrEmpty},
		{"abc", ErrOddLength},
		{"zz", ErrInvalidHex},
		{"00112233445566778899", ErrValueTooLarge},
	}

	for _, tt := range tests {
		_, err := ParseHexData(tt.in)
		assert.ErrorIs(t, err, tt.want, tt.in)

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	}
}

func TestParseUnsigned(t *testing.T) {
	v, err := ParseUnsigned("100")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v)

	v, err = ParseUnsigned("0x64")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v)

	for _, in := range []string{"", "-1", "1.5", "NaN", "0xg"} {
		_, err := ParseUnsigned(in)
		assert.Error(t, err, in)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "size", Value: "x", Err: ErrInvalidSize}
	assert.Equal(t, `invalid size "x": size must be between 1 and 8 bytes`, err.Error())
}
