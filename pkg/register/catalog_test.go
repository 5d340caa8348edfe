package register

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Len(t, c, 10)

	assert.Equal(t, Descriptor{Address: "0x0800", Name: "ATS", Size: 2, Transform: TransformTemperature}, c[0])
	assert.Equal(t, "0x3303", c[4].Address)
	assert.Equal(t, 1, c[4].Size)

	// The shipped list carries RL17A twice; both stay selectable.
	assert.Equal(t, c[2], c[3])
	require.NoError(t, c.Validate())
}

func TestDefaultCatalogIsCopy(t *testing.T) {
	c := DefaultCatalog()
	c[0].Name = "changed"
	assert.Equal(t, "ATS", DefaultCatalog()[0].Name)
}

func TestCatalogAt(t *testing.T) {
	c := DefaultCatalog()

	d, err := c.At(4)
	require.NoError(t, err)
	assert.Equal(t, "M2 Party", d.Name)

	_, err = c.At(10)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	_, err = c.At(-1)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestCatalogLookup(t *testing.T) {
	c := DefaultCatalog()

	d, idx, ok := c.Lookup("rl17a")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "0x0818", d.Address)

	_, _, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestCatalogFindAddress(t *testing.T) {
	c := DefaultCatalog()

	d, ok := c.FindAddress("0X3305")
	require.True(t, ok)
	assert.Equal(t, "M2 Neigung", d.Name)

	_, ok = c.FindAddress("0xffff")
	assert.False(t, ok)
}

func TestDescriptorString(t *testing.T) {
	assert.Equal(t, "ATS (0x0800, 2 bytes)", DefaultCatalog()[0].String())
	assert.Equal(t, "M2 Party (0x3303, 1 byte)", DefaultCatalog()[4].String())
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`
registers:
  - address: "0x555A"
    name: KTS_soll
    size: 2
    transform: temperature
  - address: "0xA38F"
    name: Pact
    size: 1
    transform: percentage
`))
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, "0x555a", c[0].Address)
	assert.Equal(t, TransformPercentage, c[1].Transform)
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "registers: [\n"},
		{"empty", "registers: []\n"},
		{"bad address", "registers:\n  - {address: '0800', name: X, size: 1}\n"},
		{"bad size", "registers:\n  - {address: '0x0800', name: X, size: 0}\n"},
		{"missing name", "registers:\n  - {address: '0x0800', size: 1}\n"},
		{"bad transform", "registers:\n  - {address: '0x0800', name: X, size: 1, transform: kelvin}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)

			var le *LoadError
			assert.True(t, errors.As(err, &le))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registers:\n  - {address: '0x0802', name: KTS, size: 2}\n"), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "KTS", c[0].Name)

	_, err = LoadCatalog(filepath.Join(dir, "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(dir, "missing.yaml"), le.File)
}
