// Package version parses register API versions advertised by backends.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the register API version this console speaks.
const Current = "1.0"

// APIVersion represents a parsed "major.minor" register API version.
type APIVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (APIVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return APIVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return APIVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return APIVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return APIVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v APIVersion) Compatible(other APIVersion) bool {
	return v.Major == other.Major
}

// Supported reports whether a backend advertising s can be used. Backends
// that advertise no version predate versioning and speak 1.x.
func Supported(s string) bool {
	if s == "" {
		return true
	}
	v, err := Parse(s)
	if err != nil {
		return false
	}
	current, _ := Parse(Current)
	return current.Compatible(v)
}
