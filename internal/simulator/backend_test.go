package simulator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitolink/regconsole/pkg/register"
)

func serve(t *testing.T, b *Backend, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	b.ServeHTTP(w, httptest.NewRequest(method, target, &buf))
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"]
}

func TestBackendReadUnsetIsZero(t *testing.T) {
	b := NewBackend()

	w := serve(t, b, http.MethodGet, "/api/0x0800?size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0000", decodeData(t, w))
}

func TestBackendReadPadsAndTruncates(t *testing.T) {
	b := NewBackend()
	b.Seed("0x0800", "d7")
	b.Seed("0x3303", "0102")

	assert.Equal(t, "d700", decodeData(t, serve(t, b, http.MethodGet, "/api/0x0800?size=2", nil)))
	assert.Equal(t, "01", decodeData(t, serve(t, b, http.MethodGet, "/api/0x3303?size=1", nil)))
}

func TestBackendReadDefaultSize(t *testing.T) {
	b := NewBackend()
	serve(t, b, http.MethodGet, "/api/0x0800", nil)

	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 2, reqs[0].Size)
}

func TestBackendWriteEchoes(t *testing.T) {
	b := NewBackend()

	w := serve(t, b, http.MethodPost, "/api/0x3303", map[string]string{"data": "2A"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2a", decodeData(t, w))
	assert.Equal(t, "2a", b.Value("0x3303"))
}

func TestBackendOnWriteRewritesValue(t *testing.T) {
	b := NewBackend()
	b.Handlers.OnWrite = func(address, data string) string { return "ff" }

	w := serve(t, b, http.MethodPost, "/api/0x3303", map[string]string{"data": "01"})
	assert.Equal(t, "ff", decodeData(t, w))
	assert.Equal(t, "ff", b.Value("0x3303"))
}

func TestBackendErrors(t *testing.T) {
	b := NewBackend()

	assert.Equal(t, http.StatusBadRequest, serve(t, b, http.MethodGet, "/api/0x0800?size=x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, b, http.MethodGet, "/api/nope", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(t, b, http.MethodDelete, "/api/0x0800", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(t, b, http.MethodGet, "/other", nil).Code)

	b.FailWith(http.StatusBadGateway)
	assert.Equal(t, http.StatusBadGateway, serve(t, b, http.MethodGet, "/api/0x0800", nil).Code)
	b.FailWith(0)
	assert.Equal(t, http.StatusOK, serve(t, b, http.MethodGet, "/api/0x0800", nil).Code)
}

func TestBackendSeedCatalog(t *testing.T) {
	b := NewBackend()
	b.SeedCatalog(register.DefaultCatalog())

	assert.Equal(t, "0100", b.Value("0x0800"))
	assert.Equal(t, "05", b.Value("0x3303"))
	// The duplicate RL17A entry overwrites the first one.
	assert.Equal(t, "0400", b.Value("0x0818"))
}

func TestBackendAddressIsCanonical(t *testing.T) {
	b := NewBackend()
	b.Seed("0X555A", "0102")
	assert.Equal(t, "0102", b.Value("0x555a"))
}

func TestBackendStartServesUntilClosed(t *testing.T) {
	b := NewBackend()
	b.Seed("0x0800", "d700")

	srv := b.Start()
	resp, err := http.Get(srv.URL + "/api/0x0800?size=2")
	require.NoError(t, err)
	var body map[string]string
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "d700", body["data"])

	srv.Close()
	_, err = http.Get(srv.URL + "/api/0x0800")
	assert.Error(t, err)
}
