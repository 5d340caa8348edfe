package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap holds decoded TXT key/value pairs.
type TXTRecordMap map[string]string

// EncodeConsoleTXT builds the TXT records of a console advertisement.
func EncodeConsoleTXT(info *ConsoleInfo) TXTRecordMap {
	txt := TXTRecordMap{}
	if info.Version != "" {
		txt[TXTKeyVersion] = info.Version
	}
	if info.APIURL != "" {
		txt[TXTKeyAPI] = info.APIURL
	}
	return txt
}

// DecodeBackendTXT applies backend TXT records to b.
func DecodeBackendTXT(txt TXTRecordMap, b *Backend) {
	if p := strings.TrimRight(txt[TXTKeyPath], "/"); p != "" {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		b.Path = p
	}
	b.Version = txt[TXTKeyVersion]
	b.TLS = txt[TXTKeyTLS] == "1"
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if k == "" {
			continue
		}
		if !found {
			// Key without value (boolean flag)
			v = ""
		}
		txt[k] = v
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
