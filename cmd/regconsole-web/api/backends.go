package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vitolink/regconsole/pkg/discovery"
)

// MaxBrowseTimeout caps the ?timeout= of a backend discovery request.
const MaxBrowseTimeout = 30 * time.Second

// browseTimeout parses a requested browse duration. Missing or invalid
// values use discovery.BrowseTimeout; larger ones are capped.
func browseTimeout(s string) time.Duration {
	timeout, err := time.ParseDuration(s)
	if err != nil || timeout <= 0 {
		return discovery.BrowseTimeout
	}
	return min(timeout, MaxBrowseTimeout)
}

// DiscoverBackends lists register API gateways on the local network.
func DiscoverBackends(ctx context.Context, timeoutStr string) (*BackendListResponse, error) {
	timeout := browseTimeout(timeoutStr)

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browser := discovery.NewBrowser(discovery.Config{})
	defer browser.Stop()

	found, err := browser.Browse(browseCtx)
	if err != nil {
		return nil, err
	}

	backends := []Backend{}
	for b := range found {
		backends = append(backends, backendFromDiscovery(b))
	}

	return &BackendListResponse{
		Backends:     backends,
		DiscoveredAt: time.Now(),
		Timeout:      timeout.String(),
	}, nil
}

// HandleBackends handles GET /api/v1/backends?timeout=.
func HandleBackends(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := DiscoverBackends(req.Context(), req.URL.Query().Get("timeout"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Discovery failed", err.Error())
		return
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// backendFromDiscovery converts a discovered backend to its API form.
func backendFromDiscovery(b *discovery.Backend) Backend {
	return Backend{
		InstanceName: b.InstanceName,
		Host:         b.Host,
		Port:         b.Port,
		Addresses:    b.Addresses,
		URL:          b.URL(),
		Version:      b.Version,
		Compatible:   b.Compatible(),
	}
}
