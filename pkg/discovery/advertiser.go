package discovery

import (
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// Advertiser announces a console over mDNS.
type Advertiser struct {
	config Config

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates a new mDNS advertiser.
func NewAdvertiser(config Config) *Advertiser {
	return &Advertiser{config: config}
}

// Advertise starts advertising info, replacing any earlier advertisement.
func (a *Advertiser) Advertise(info *ConsoleInfo) error {
	if err := ValidateInstanceName(info.InstanceName); err != nil {
		return err
	}
	if info.Port == 0 {
		return fmt.Errorf("advertise %s: port is required", info.InstanceName)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.InstanceName,
		ServiceTypeConsole,
		Domain,
		int(info.Port),
		TXTRecordsToStrings(EncodeConsoleTXT(info)),
		a.interfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register console service: %w", err)
	}

	a.server = server
	return nil
}

// Update replaces the TXT records of the running advertisement.
func (a *Advertiser) Update(info *ConsoleInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}
	a.server.SetText(TXTRecordsToStrings(EncodeConsoleTXT(info)))
	return nil
}

// Stop stops advertising.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// interfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *Advertiser) interfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}
