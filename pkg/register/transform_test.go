package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformDecode(t *testing.T) {
	tests := []struct {
		name string
		t    Transform
		data string
		want float64
	}{
		{"temperature", TransformTemperature, "d700", 21.5},
		{"negative temperature", TransformTemperature, "ceff", -5.0},
		{"short", TransformShort, "6400", 100},
		{"byte", TransformByte, "2a", 42},
		{"percentage", TransformPercentage, "c8", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.t.Decode(tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTransformDecodeErrors(t *testing.T) {
	_, err := TransformTemperature.Decode("01")
	assert.ErrorIs(t, err, ErrShortData)

	_, err = TransformByte.Decode("")
	assert.ErrorIs(t, err, ErrShortData)

	_, err = TransformByte.Decode("xy")
	assert.ErrorIs(t, err, ErrInvalidHex)

	_, err = TransformNone.Decode("00")
	assert.ErrorIs(t, err, ErrUnknownTransform)
}

func TestTransformFormat(t *testing.T) {
	s, err := TransformTemperature.Format("d700")
	require.NoError(t, err)
	assert.Equal(t, "21.5 °C", s)

	s, err = TransformByte.Format("03")
	require.NoError(t, err)
	assert.Equal(t, "3", s)
}

func TestTransformValid(t *testing.T) {
	assert.True(t, TransformNone.Valid())
	assert.True(t, TransformPercentage.Valid())
	assert.False(t, Transform("kelvin").Valid())
}
