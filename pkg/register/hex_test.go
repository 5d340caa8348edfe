package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroPad(t *testing.T) {
	tests := []struct {
		value  string
		digits int
		want   string
	}{
		{"3", 2, "03"},
		{"abcd", 2, "abcd"},
		{"64", 4, "0064"},
		{"", 2, "00"},
		{"ff", 2, "ff"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ZeroPad(tt.value, tt.digits), "ZeroPad(%q, %d)", tt.value, tt.digits)
	}
}

func TestSwapEndianness(t *testing.T) {
	assert.Equal(t, "1b0a", SwapEndianness("0a1b"))
	assert.Equal(t, "6400", SwapEndianness("0064"))
	assert.Equal(t, "ff", SwapEndianness("ff"))
	assert.Equal(t, "", SwapEndianness(""))
	assert.Equal(t, "78563412", SwapEndianness("12345678"))
}

func TestSwapEndiannessIsInvolution(t *testing.T) {
	for _, s := range []string{"", "00", "0a1b", "deadbeef", "0102030405060708"} {
		assert.Equal(t, s, SwapEndianness(SwapEndianness(s)), s)
	}
}

func TestSwapEndiannessOddLengthDropsLeadingDigit(t *testing.T) {
	assert.Equal(t, "bc", SwapEndianness("abc"))
	assert.Equal(t, "deab", SwapEndianness("1abde"))
}

func TestHexToUnsigned(t *testing.T) {
	// Swap happens before parsing: "0064" reads as 0x6400.
	v, err := HexToUnsigned("0064")
	require.NoError(t, err)
	assert.Equal(t, uint64(25600), v)

	v, err = HexToUnsigned("6400")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v)

	v, err = HexToUnsigned("ffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<64-1), v)
}

func TestHexToUnsignedErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"abc", ErrOddLength},
		{"zz", ErrInvalidHex},
		{"000000000000000000", ErrValueTooLarge},
	}

	for _, tt := range tests {
		_, err := HexToUnsigned(tt.in)
		assert.ErrorIs(t, err, tt.want, tt.in)
	}
}

func TestUnsignedToHex(t *testing.T) {
	tests := []struct {
		v    uint64
		size int
		want string
	}{
		{100, 2, "6400"},
		{100, 1, "64"},
		{0, 2, "0000"},
		{0x1234, 2, "3412"},
		{1, 4, "01000000"},
	}

	for _, tt := range tests {
		got, err := UnsignedToHex(tt.v, tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "UnsignedToHex(%d, %d)", tt.v, tt.size)
	}
}

func TestUnsignedToHexOverflow(t *testing.T) {
	_, err := UnsignedToHex(256, 1)
	assert.ErrorIs(t, err, ErrValueOverflow)

	_, err = UnsignedToHex(1, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestConversionRoundTrip(t *testing.T) {
	for _, hex := range []string{"0000", "6400", "3412", "ffff", "0a1b"} {
		v, err := HexToUnsigned(hex)
		require.NoError(t, err)
		back, err := UnsignedToHex(v, len(hex)/2)
		require.NoError(t, err)
		assert.Equal(t, hex, back)
	}
}
