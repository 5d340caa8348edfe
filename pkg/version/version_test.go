package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestAPIVersion_String(t *testing.T) {
	v, err := Parse("10.23")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "10.23" {
		t.Errorf("String() = %q, want %q", v.String(), "10.23")
	}
}

func TestAPIVersion_Compatible(t *testing.T) {
	v1 := APIVersion{Major: 1, Minor: 0}
	if !v1.Compatible(APIVersion{Major: 1, Minor: 3}) {
		t.Error("1.0 should be compatible with 1.3")
	}
	if v1.Compatible(APIVersion{Major: 2, Minor: 0}) {
		t.Error("1.0 should not be compatible with 2.0")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"1.0", true},
		{"1.7", true},
		{"2.0", false},
		{"0.9", false},
		{"beta", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.input); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
