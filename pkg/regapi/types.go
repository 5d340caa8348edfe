// Package regapi is a client for the register HTTP API:
//
//	GET  /api/{address}?size={n}  -> {"data": "<hex>"}
//	POST /api/{address} {"data": "<hex>"} -> {"data": "<hex>"}
//
// Hex data is raw register content in device byte order. The client does
// not interpret it; see package register for conversions.
package regapi

import "context"

// DefaultSize is the byte count read when the caller does not give one.
const DefaultSize = 2

// ReadResponse is the response for GET /api/{address}.
type ReadResponse struct {
	Data string `json:"data"`
}

// WriteRequest is the request body for POST /api/{address}.
type WriteRequest struct {
	Data string `json:"data"`
}

// WriteResponse is the response for POST /api/{address}. Data is the value
// the backend holds after the write, which may differ from what was sent.
type WriteResponse struct {
	Data string `json:"data"`
}

// API is the register API as seen by the editor.
type API interface {
	// Fetch reads size bytes at address.
	Fetch(ctx context.Context, address string, size int) (*ReadResponse, error)

	// Set writes data to address and returns the backend's confirmed value.
	Set(ctx context.Context, address, data string) (*WriteResponse, error)
}
