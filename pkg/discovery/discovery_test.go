package discovery

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(instance string, port int, v4 []string, text ...string) *zeroconf.ServiceEntry {
	entry := &zeroconf.ServiceEntry{}
	entry.Instance = instance
	entry.HostName = "vitolink.local."
	entry.Port = port
	entry.Text = text
	for _, a := range v4 {
		entry.AddrIPv4 = append(entry.AddrIPv4, net.ParseIP(a))
	}
	return entry
}

func TestEntryToBackend(t *testing.T) {
	entry := testEntry("Heating", 5000, []string{"192.168.1.20"}, "path=gateway/", "ver=1.2", "tls=1")
	entry.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}

	b := entryToBackend(entry)
	require.NotNil(t, b)

	assert.Equal(t, "Heating", b.InstanceName)
	assert.Equal(t, "vitolink.local.", b.Host)
	assert.Equal(t, uint16(5000), b.Port)
	assert.Equal(t, []string{"192.168.1.20", "fe80::1"}, b.Addresses)
	assert.Equal(t, "/gateway", b.Path)
	assert.Equal(t, "1.2", b.Version)
	assert.True(t, b.TLS)
	assert.Equal(t, "https://192.168.1.20:5000/gateway", b.URL())
}

func TestEntryToBackendIgnoresMissingPort(t *testing.T) {
	assert.Nil(t, entryToBackend(testEntry("x", 0, nil)))
	assert.Nil(t, entryToBackend(nil))
}

func TestBackendURL(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		want    string
	}{
		{"host only", Backend{Host: "vitolink.local.", Port: 5000}, "http://vitolink.local:5000"},
		{"ipv4", Backend{Host: "h", Port: 80, Addresses: []string{"10.0.0.2"}}, "http://10.0.0.2:80"},
		{"ipv6", Backend{Port: 5000, Addresses: []string{"fe80::1"}}, "http://[fe80::1]:5000"},
		{"path", Backend{Host: "gw", Port: 8080, Path: "/vito"}, "http://gw:8080/vito"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backend.URL())
		})
	}
}

func TestTXTRecords(t *testing.T) {
	txt := EncodeConsoleTXT(&ConsoleInfo{Version: "dev", APIURL: "http://gw:5000"})
	strs := TXTRecordsToStrings(txt)
	assert.Equal(t, []string{"api=http://gw:5000", "ver=dev"}, strs)

	back := StringsToTXTRecords(append(strs, "flag", "", "=x"))
	assert.Equal(t, TXTRecordMap{"api": "http://gw:5000", "ver": "dev", "flag": ""}, back)

	assert.Empty(t, EncodeConsoleTXT(&ConsoleInfo{}))
}

func TestDecodeBackendTXTDefaults(t *testing.T) {
	var b Backend
	DecodeBackendTXT(TXTRecordMap{"tls": "0"}, &b)
	assert.Empty(t, b.Path)
	assert.Empty(t, b.Version)
	assert.False(t, b.TLS)

	DecodeBackendTXT(TXTRecordMap{"path": "/api-gw/"}, &b)
	assert.Equal(t, "/api-gw", b.Path)
}

func TestMergeAndRemoveAddresses(t *testing.T) {
	addrs := mergeAddresses([]string{"10.0.0.1"}, []string{"10.0.0.1", "10.0.0.2"})
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, addrs)

	addrs = removeAddresses(addrs, testEntry("x", 1, []string{"10.0.0.1"}))
	assert.Equal(t, []string{"10.0.0.2"}, addrs)
}

func TestAggregateMergesInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	out := make(chan *Backend)
	go aggregate(ctx, entries, removed, out)

	go func() {
		entries <- testEntry("Heating", 5000, []string{"10.0.0.1"})
		entries <- testEntry("Heating", 5000, []string{"10.0.0.2"})
		entries <- testEntry("bad", 0, nil)
		entries <- testEntry("Garage", 5001, []string{"10.0.0.3"})
		close(entries)
	}()

	var got []string
	for b := range out {
		got = append(got, b.InstanceName)
	}
	assert.Equal(t, []string{"Heating", "Garage"}, got)
}

func TestAggregateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan *Backend)
	go aggregate(ctx, make(chan *zeroconf.ServiceEntry), make(chan *zeroconf.ServiceEntry), out)

	cancel()
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("aggregate did not stop")
	}
}

func TestValidateInstanceName(t *testing.T) {
	assert.NoError(t, ValidateInstanceName("regconsole"))
	assert.ErrorIs(t, ValidateInstanceName(""), ErrInstanceNameTooLong)
	assert.ErrorIs(t, ValidateInstanceName(strings.Repeat("a", 64)), ErrInstanceNameTooLong)
}

func TestAdvertiserRejectsInvalidInfo(t *testing.T) {
	a := NewAdvertiser(Config{})
	assert.Error(t, a.Advertise(&ConsoleInfo{InstanceName: "console"}))
	assert.ErrorIs(t, a.Advertise(&ConsoleInfo{Port: 8080}), ErrInstanceNameTooLong)
	assert.ErrorIs(t, a.Update(&ConsoleInfo{}), ErrNotAdvertising)
	a.Stop()
}

func TestFirstCompatibleSkipsOtherMajorVersions(t *testing.T) {
	found := make(chan *Backend, 3)
	found <- &Backend{InstanceName: "Future", Version: "2.0"}
	found <- &Backend{InstanceName: "Heating", Version: "1.4"}
	close(found)

	b, err := firstCompatible(context.Background(), found)
	require.NoError(t, err)
	assert.Equal(t, "Heating", b.InstanceName)
}

func TestFirstCompatibleNotFound(t *testing.T) {
	found := make(chan *Backend, 1)
	found <- &Backend{InstanceName: "Future", Version: "2.0"}
	close(found)

	_, err := firstCompatible(context.Background(), found)
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = firstCompatible(ctx, make(chan *Backend))
	assert.ErrorIs(t, err, ErrNotFound)
}
