package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Browser finds register API backends.
type Browser struct {
	config Config

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBrowser creates a new mDNS browser.
func NewBrowser(config Config) *Browser {
	return &Browser{config: config}
}

// Browse searches for backends until ctx is done. Services are aggregated
// by instance name; addresses seen on several interfaces are combined into
// one entry, which is emitted once.
func (b *Browser) Browse(ctx context.Context) (<-chan *Backend, error) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = cancel
	b.mu.Unlock()

	out := make(chan *Backend)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go aggregate(ctx, entries, removed, out)

	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeBackend, Domain, entries, removed, b.browserOptions()...)
	}()

	return out, nil
}

// FindBackend returns the first compatible backend that answers within
// timeout. Backends advertising another major API version are skipped.
func (b *Browser) FindBackend(ctx context.Context, timeout time.Duration) (*Backend, error) {
	if timeout <= 0 {
		timeout = BrowseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	return firstCompatible(ctx, found)
}

func firstCompatible(ctx context.Context, found <-chan *Backend) (*Backend, error) {
	for {
		select {
		case backend, ok := <-found:
			if !ok {
				return nil, ErrNotFound
			}
			if backend.Compatible() {
				return backend, nil
			}
		case <-ctx.Done():
			return nil, ErrNotFound
		}
	}
}

// Stop stops the active browse.
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// aggregate merges zeroconf entries per instance and emits each new
// backend on out. out is closed when entries closes or ctx is done.
func aggregate(ctx context.Context, entries, removed <-chan *zeroconf.ServiceEntry, out chan<- *Backend) {
	defer close(out)

	backends := make(map[string]*Backend)

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			backend := entryToBackend(entry)
			if backend == nil {
				continue
			}

			if existing, found := backends[backend.InstanceName]; found {
				existing.Addresses = mergeAddresses(existing.Addresses, backend.Addresses)
				continue
			}
			backends[backend.InstanceName] = backend

			// Emit a copy; the stored entry keeps collecting addresses.
			emitted := *backend
			emitted.Addresses = append([]string(nil), backend.Addresses...)
			select {
			case out <- &emitted:
			case <-ctx.Done():
				return
			}

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			if existing, found := backends[entry.Instance]; found {
				existing.Addresses = removeAddresses(existing.Addresses, entry)
				if len(existing.Addresses) == 0 {
					delete(backends, entry.Instance)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// entryToBackend converts a zeroconf entry. Entries without a port are
// ignored.
func entryToBackend(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil || entry.Port <= 0 || entry.Port > 65535 {
		return nil
	}

	b := &Backend{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    entryAddresses(entry),
	}
	DecodeBackendTXT(StringsToTXTRecords(entry.Text), b)
	return b
}

// entryAddresses lists IPv4 addresses before IPv6 ones.
func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, addr := range entryAddresses(entry) {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
