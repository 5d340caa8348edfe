package register

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAddress validates a register address such as "0x0800" and returns it
// in canonical form: lower-case, four hex digits.
func ParseAddress(s string) (string, error) {
	v, err := AddressValue(s)
	if err != nil {
		return "", err
	}
	return FormatAddress(v), nil
}

// AddressValue returns the numeric value of a register address.
func AddressValue(s string) (uint16, error) {
	text := strings.TrimSpace(s)
	digits, ok := trimHexPrefix(text)
	if !ok || digits == "" || len(digits) > 4 {
		return 0, &ValidationError{Field: "address", Value: s, Err: ErrInvalidAddress}
	}
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, &ValidationError{Field: "address", Value: s, Err: ErrInvalidAddress}
	}
	return uint16(v), nil
}

// FormatAddress formats a numeric register address.
func FormatAddress(v uint16) string {
	return fmt.Sprintf("0x%04x", v)
}

// ParseSize validates a register size in bytes.
func ParseSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxSize {
		return 0, &ValidationError{Field: "size", Value: s, Err: ErrInvalidSize}
	}
	return n, nil
}

// ParseHexData validates raw register data entered by an operator. An
// optional 0x prefix is accepted. The result is lower-case without prefix.
func ParseHexData(s string) (string, error) {
	text := strings.TrimSpace(s)
	if digits, ok := trimHexPrefix(text); ok {
		text = digits
	}
	text = strings.ToLower(text)

	var err error
	switch {
	case text == "":
		err = ErrEmpty
	case len(text)%2 != 0:
		err = ErrOddLength
	case len(text) > 2*MaxSize:
		err = ErrValueTooLarge
	case !isHex(text):
		err = ErrInvalidHex
	}
	if err != nil {
		return "", &ValidationError{Field: "data", Value: s, Err: err}
	}
	return text, nil
}

// ParseUnsigned parses an unsigned value given in decimal or, with a 0x
// prefix, in hex.
func ParseUnsigned(s string) (uint64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, &ValidationError{Field: "unsigned data", Value: s, Err: ErrEmpty}
	}

	base := 10
	if digits, ok := trimHexPrefix(text); ok {
		text, base = digits, 16
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, &ValidationError{Field: "unsigned data", Value: s, Err: ErrInvalidNumber}
	}
	return v, nil
}

func trimHexPrefix(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
