// Package mocks provides testify mocks for the regapi interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vitolink/regconsole/pkg/regapi"
)

// API is a mock of regapi.API.
type API struct {
	mock.Mock
}

// Fetch records the call and returns the configured response.
func (m *API) Fetch(ctx context.Context, address string, size int) (*regapi.ReadResponse, error) {
	args := m.Called(ctx, address, size)
	resp, _ := args.Get(0).(*regapi.ReadResponse)
	return resp, args.Error(1)
}

// Set records the call and returns the configured response.
func (m *API) Set(ctx context.Context, address, data string) (*regapi.WriteResponse, error) {
	args := m.Called(ctx, address, data)
	resp, _ := args.Get(0).(*regapi.WriteResponse)
	return resp, args.Error(1)
}

var _ regapi.API = (*API)(nil)
