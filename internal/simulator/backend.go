// Package simulator provides an in-memory register API backend. It serves
// the same two endpoints as a real device gateway and records every request,
// which makes it useful both in tests and for trying the console without
// hardware.
package simulator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/vitolink/regconsole/pkg/register"
)

// Request is a request received by the backend.
type Request struct {
	Method  string
	Address string
	Size    int
	Data    string
}

// Handlers holds optional callbacks for backend operations.
type Handlers struct {
	// OnRequest is called before a request is answered, outside the lock.
	OnRequest func(req Request)

	// OnWrite may rewrite the value stored by a write. The returned value is
	// stored and echoed.
	OnWrite func(address, data string) string
}

// Backend is an in-memory register store.
type Backend struct {
	// Handlers are callbacks for backend operations.
	Handlers Handlers

	mu        sync.Mutex
	registers map[string]string
	requests  []Request
	failWith  int
}

// NewBackend creates an empty backend. Unset registers read as zero.
func NewBackend() *Backend {
	return &Backend{registers: make(map[string]string)}
}

// Seed stores raw data at address.
func (b *Backend) Seed(address, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registers[canonical(address)] = strings.ToLower(data)
}

// SeedCatalog stores a value for every entry of c, using the entry's index
// as the value so reads are distinguishable.
func (b *Backend) SeedCatalog(c register.Catalog) {
	for i, d := range c {
		data, err := register.UnsignedToHex(uint64(i+1), d.Size)
		if err == nil {
			b.Seed(d.Address, data)
		}
	}
}

// Value returns the raw data stored at address.
func (b *Backend) Value(address string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registers[canonical(address)]
}

// Requests returns a copy of the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// FailWith makes every following request fail with status. Zero restores
// normal operation.
func (b *Backend) FailWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = status
}

// Start serves the backend on a loopback listener. The caller closes the
// returned server.
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b)
}

// ServeHTTP implements the register API.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimPrefix(r.URL.Path, "/api/")
	if address == r.URL.Path || address == "" || strings.Contains(address, "/") {
		http.NotFound(w, r)
		return
	}

	req := Request{Method: r.Method, Address: address}

	switch r.Method {
	case http.MethodGet:
		req.Size = 2
		if s := r.URL.Query().Get("size"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > register.MaxSize {
				http.Error(w, "invalid size", http.StatusBadRequest)
				return
			}
			req.Size = n
		}
	case http.MethodPost:
		var body struct {
			Data string `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		req.Data = body.Data
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	status := b.failWith
	b.mu.Unlock()

	if b.Handlers.OnRequest != nil {
		b.Handlers.OnRequest(req)
	}

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	if _, err := register.AddressValue(address); err != nil {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}

	var data string
	if r.Method == http.MethodGet {
		data = b.read(address, req.Size)
	} else {
		data = b.write(address, req.Data)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"data": data})
}

// read returns size bytes from the stored value, padded with zero bytes.
// Device order puts the low byte first, so padding goes on the right.
func (b *Backend) read(address string, size int) string {
	b.mu.Lock()
	v := b.registers[canonical(address)]
	b.mu.Unlock()

	if len(v) > 2*size {
		return v[:2*size]
	}
	return v + strings.Repeat("00", size-len(v)/2)
}

func (b *Backend) write(address, data string) string {
	data = strings.ToLower(data)
	if b.Handlers.OnWrite != nil {
		data = b.Handlers.OnWrite(address, data)
	}
	b.mu.Lock()
	b.registers[canonical(address)] = data
	b.mu.Unlock()
	return data
}

func canonical(address string) string {
	if a, err := register.ParseAddress(address); err == nil {
		return a
	}
	return address
}
