package regapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitolink/regconsole/pkg/register"
)

// ScanResult is the outcome of reading one address during a scan.
type ScanResult struct {
	Address string
	Data    string
	Err     error
}

// ParseRange parses an address range such as "0x3300..0x33ff". A single
// address is a range of one.
func ParseRange(s string) (from, to uint16, err error) {
	lo, hi, found := cutRange(s)
	if from, err = register.AddressValue(lo); err != nil {
		return 0, 0, err
	}
	if !found {
		return from, from, nil
	}
	if to, err = register.AddressValue(hi); err != nil {
		return 0, 0, err
	}
	if to < from {
		return 0, 0, fmt.Errorf("invalid range %q: end before start", s)
	}
	return from, to, nil
}

func cutRange(s string) (lo, hi string, found bool) {
	if lo, hi, found = strings.Cut(s, ".."); found {
		return lo, hi, true
	}
	return strings.Cut(s, "-")
}

// Scan reads size bytes at every address from..to in order and reports
// each result to fn, failures included. It stops early when ctx is done
// and returns the context error in that case.
func Scan(ctx context.Context, api API, from, to uint16, size int, fn func(ScanResult)) error {
	for addr := uint32(from); addr <= uint32(to); addr++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		address := register.FormatAddress(uint16(addr))
		resp, err := api.Fetch(ctx, address, size)
		result := ScanResult{Address: address, Err: err}
		if err == nil {
			result.Data = resp.Data
		}
		fn(result)
	}
	return nil
}
