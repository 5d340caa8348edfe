package register

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is a named register known to the console.
type Descriptor struct {
	Address   string    `yaml:"address" json:"address"`
	Name      string    `yaml:"name" json:"name"`
	Size      int       `yaml:"size" json:"size"`
	Transform Transform `yaml:"transform,omitempty" json:"transform,omitempty"`
}

// String returns "NAME (0x0800, 2 bytes)".
func (d Descriptor) String() string {
	unit := "bytes"
	if d.Size == 1 {
		unit = "byte"
	}
	return fmt.Sprintf("%s (%s, %d %s)", d.Name, d.Address, d.Size, unit)
}

// Validate checks the descriptor and normalises its address.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Value: d.Name, Err: ErrEmpty}
	}
	addr, err := ParseAddress(d.Address)
	if err != nil {
		return err
	}
	if d.Size < 1 || d.Size > MaxSize {
		return &ValidationError{Field: "size", Value: fmt.Sprint(d.Size), Err: ErrInvalidSize}
	}
	if !d.Transform.Valid() {
		return &ValidationError{Field: "transform", Value: string(d.Transform), Err: ErrUnknownTransform}
	}
	d.Address = addr
	return nil
}

// Catalog is an ordered list of registers offered for quick selection.
// Entries may repeat; each position is selectable on its own.
type Catalog []Descriptor

var defaultCatalog = Catalog{
	{Address: "0x0800", Name: "ATS", Size: 2, Transform: TransformTemperature},
	{Address: "0x0810", Name: "KTS", Size: 2, Transform: TransformTemperature},
	{Address: "0x0818", Name: "RL17A", Size: 2, Transform: TransformTemperature},
	{Address: "0x0818", Name: "RL17A", Size: 2, Transform: TransformTemperature},
	{Address: "0x3303", Name: "M2 Party", Size: 1, Transform: TransformByte},
	{Address: "0x3304", Name: "M2 Niveau", Size: 1, Transform: TransformByte},
	{Address: "0x3305", Name: "M2 Neigung", Size: 1, Transform: TransformByte},
	{Address: "0x3306", Name: "M2 RTsoll", Size: 1, Transform: TransformByte},
	{Address: "0x3307", Name: "M2 RTsollred", Size: 1, Transform: TransformByte},
	{Address: "0x3308", Name: "M2 RTsollparty", Size: 1, Transform: TransformByte},
}

// DefaultCatalog returns a copy of the built-in register list.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCatalog))
	copy(c, defaultCatalog)
	return c
}

// At returns the entry at index i.
func (c Catalog) At(i int) (Descriptor, error) {
	if i < 0 || i >= len(c) {
		return Descriptor{}, fmt.Errorf("%w: index %d of %d", ErrNoSuchEntry, i, len(c))
	}
	return c[i], nil
}

// Lookup returns the first entry whose name matches (case-insensitive).
func (c Catalog) Lookup(name string) (Descriptor, int, bool) {
	for i, d := range c {
		if strings.EqualFold(d.Name, name) {
			return d, i, true
		}
	}
	return Descriptor{}, -1, false
}

// FindAddress returns the first entry for the given address.
func (c Catalog) FindAddress(address string) (Descriptor, bool) {
	addr, err := ParseAddress(address)
	if err != nil {
		return Descriptor{}, false
	}
	for _, d := range c {
		if d.Address == addr {
			return d, true
		}
	}
	return Descriptor{}, false
}

type catalogFile struct {
	Registers Catalog `yaml:"registers"`
}

// ParseCatalog parses a YAML catalog of the form
//
//	registers:
//	  - address: "0x0800"
//	    name: ATS
//	    size: 2
//	    transform: temperature
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Index: -1, Message: "failed to parse YAML", Cause: err}
	}
	if len(f.Registers) == 0 {
		return nil, &LoadError{Index: -1, Message: "catalog has no registers"}
	}
	if err := f.Registers.Validate(); err != nil {
		return nil, err
	}
	return f.Registers, nil
}

// Validate validates every entry, normalising addresses in place.
func (c Catalog) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return &LoadError{Index: i, Message: "invalid register", Cause: err}
		}
	}
	return nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Index: -1, Message: "failed to read file", Cause: err}
	}
	c, err := ParseCatalog(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Index: -1, Message: err.Error()}
	}
	return c, nil
}
