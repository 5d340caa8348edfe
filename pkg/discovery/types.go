package discovery

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vitolink/regconsole/pkg/version"
)

// Service type constants for mDNS.
const (
	// ServiceTypeBackend is the service type of register API gateways.
	ServiceTypeBackend = "_vitolink._tcp"

	// ServiceTypeConsole is the service type of regconsole-web.
	ServiceTypeConsole = "_regconsole._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// MaxInstanceNameLen is the DNS label limit for instance names.
	MaxInstanceNameLen = 63

	// BrowseTimeout is the default time to wait for a backend.
	BrowseTimeout = 5 * time.Second
)

// TXT record keys.
const (
	TXTKeyPath    = "path"
	TXTKeyVersion = "ver"
	TXTKeyTLS     = "tls"
	TXTKeyAPI     = "api"
)

var (
	// ErrNotFound is returned when no backend answered in time.
	ErrNotFound = errors.New("no backend found")

	// ErrNotAdvertising is returned when updating a stopped advertisement.
	ErrNotAdvertising = errors.New("not advertising")

	// ErrInstanceNameTooLong is returned for instance names over 63 bytes.
	ErrInstanceNameTooLong = errors.New("instance name too long")
)

// Config configures browsing and advertising.
type Config struct {
	// Interface restricts mDNS to one network interface.
	// Empty means all interfaces.
	Interface string

	// TTL for advertised records. Zero uses the zeroconf default.
	TTL time.Duration
}

// Backend is a discovered register API gateway.
type Backend struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string
	Path         string
	Version      string
	TLS          bool
}

// URL returns the base URL of the register API. The first address is
// preferred over the host name, which may not resolve without mDNS.
func (b *Backend) URL() string {
	scheme := "http"
	if b.TLS {
		scheme = "https"
	}
	host := strings.TrimSuffix(b.Host, ".")
	if len(b.Addresses) > 0 {
		host = b.Addresses[0]
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(int(b.Port))) + b.Path
}

// Compatible reports whether the backend speaks a register API version
// this console understands.
func (b *Backend) Compatible() bool {
	return version.Supported(b.Version)
}

// ConsoleInfo describes an advertised console.
type ConsoleInfo struct {
	InstanceName string
	Port         uint16
	Version      string
	APIURL       string
}
