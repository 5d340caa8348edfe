package regapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitolink/regconsole/internal/simulator"
	"github.com/vitolink/regconsole/pkg/log"
)

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func newTestClient(t *testing.T, opts ...Option) (*Client, *simulator.Backend) {
	t.Helper()
	backend := simulator.NewBackend()
	srv := backend.Start()
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c, backend
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "ftp://host", "http://", "://bad"} {
		_, err := NewClient(u)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, u)
	}
}

func TestClientFetch(t *testing.T) {
	c, backend := newTestClient(t)
	backend.Seed("0x0800", "d700")

	resp, err := c.Fetch(context.Background(), "0x0800", 2)
	require.NoError(t, err)
	assert.Equal(t, "d700", resp.Data)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, simulator.Request{Method: http.MethodGet, Address: "0x0800", Size: 2}, reqs[0])
}

func TestClientFetchDefaultSize(t *testing.T) {
	c, backend := newTestClient(t)

	_, err := c.Fetch(context.Background(), "0x0800", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, backend.Requests()[0].Size)
}

func TestClientSetReturnsBackendValue(t *testing.T) {
	c, backend := newTestClient(t)
	backend.Handlers.OnWrite = func(address, data string) string { return "0100" }

	resp, err := c.Set(context.Background(), "0x0800", "6400")
	require.NoError(t, err)
	assert.Equal(t, "0100", resp.Data)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "6400", reqs[0].Data)
}

func TestClientKeepsBasePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":"00"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/gateway/")
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "0x3303", 1)
	require.NoError(t, err)
	assert.Equal(t, "/gateway/api/0x3303", gotPath)
}

func TestClientStatusError(t *testing.T) {
	c, backend := newTestClient(t)
	backend.FailWith(http.StatusBadGateway)

	_, err := c.Fetch(context.Background(), "0x0800", 2)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "/api/0x0800", se.Path)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Contains(t, se.Error(), "502 Bad Gateway")
}

func TestClientMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"missing data", `{"value":"00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.Fetch(context.Background(), "0x0800", 2)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.Set(context.Background(), "0x0800", "00")
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClientHonoursContext(t *testing.T) {
	c, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, "0x0800", 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientLogsExchanges(t *testing.T) {
	rec := &recordingLogger{}
	c, backend := newTestClient(t, WithLogger(rec))
	backend.Seed("0x0800", "d700")

	_, err := c.Fetch(context.Background(), "0x0800", 2)
	require.NoError(t, err)

	require.Len(t, rec.events, 2)
	req, resp := rec.events[0], rec.events[1]

	assert.Equal(t, log.DirectionOut, req.Direction)
	assert.Equal(t, log.MessageTypeRequest, req.Exchange.Type)
	assert.Equal(t, 2, req.Exchange.Size)
	assert.Equal(t, "0x0800", req.Address)

	assert.Equal(t, log.DirectionIn, resp.Direction)
	assert.Equal(t, log.MessageTypeResponse, resp.Exchange.Type)
	assert.Equal(t, "d700", resp.Exchange.Data)
	assert.Equal(t, http.StatusOK, resp.Exchange.StatusCode)
	assert.Equal(t, req.Exchange.Sequence, resp.Exchange.Sequence)
	assert.NotNil(t, resp.Exchange.Duration)

	for _, e := range rec.events {
		assert.Equal(t, c.SessionID(), e.SessionID)
		assert.Equal(t, c.BaseURL(), e.Backend)
	}
}

func TestClientLogsErrors(t *testing.T) {
	rec := &recordingLogger{}
	c, backend := newTestClient(t, WithLogger(rec))
	backend.FailWith(http.StatusInternalServerError)

	_, err := c.Set(context.Background(), "0x3303", "01")
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	ev := rec.events[1]
	assert.Equal(t, log.CategoryError, ev.Category)
	require.NotNil(t, ev.Error)
	require.NotNil(t, ev.Error.Code)
	assert.Equal(t, http.StatusInternalServerError, *ev.Error.Code)
	assert.Equal(t, "POST /api/0x3303", ev.Error.Context)
}
