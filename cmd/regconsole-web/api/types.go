// Package api provides the JSON endpoints and history persistence of the
// regconsole web console.
package api

import "time"

// Action constants for history entries.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// HistoryEntry is one register exchange made from the console.
type HistoryEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Action    string    `json:"action"`
	Address   string    `json:"address"`
	Size      int       `json:"size"`
	Data      string    `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OK reports whether the exchange succeeded.
func (e HistoryEntry) OK() bool {
	return e.Error == ""
}

// HistoryListResponse is the response for GET /api/v1/history.
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
}

// Backend is a discovered register API gateway in API responses.
type Backend struct {
	InstanceName string   `json:"instance_name"`
	Host         string   `json:"host"`
	Port         uint16   `json:"port"`
	Addresses    []string `json:"addresses"`
	URL          string   `json:"url"`
	Version      string   `json:"version,omitempty"`
	Compatible   bool     `json:"compatible"`
}

// BackendListResponse is the response for GET /api/v1/backends.
type BackendListResponse struct {
	Backends     []Backend `json:"backends"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Timeout      string    `json:"timeout"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
