package regapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vitolink/regconsole/pkg/log"
)

// DefaultTimeout bounds a single API call when no http.Client is supplied.
const DefaultTimeout = 5 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 64 << 10

// maxErrorBody caps how much of an error body ends up in a StatusError.
const maxErrorBody = 256

// Client talks to a register API backend. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  log.Logger
	session *log.Session
	seq     atomic.Uint32
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger records every exchange as transaction log events.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSession records exchanges into an existing session so they share its
// ID with other components, such as the editor.
func WithSession(s *log.Session) Option {
	return func(c *Client) { c.session = s }
}

// NewClient creates a client for the backend at baseURL, e.g.
// "http://192.168.1.20:8080". A path in baseURL is kept as prefix.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		base:    u,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.session == nil {
		c.session = log.NewSession(c.logger, u.String())
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SessionID returns the identifier stamped on this client's log events.
func (c *Client) SessionID() string {
	return c.session.ID()
}

// Fetch reads size bytes at address. A size of zero or less reads
// DefaultSize bytes.
func (c *Client) Fetch(ctx context.Context, address string, size int) (*ReadResponse, error) {
	if size <= 0 {
		size = DefaultSize
	}

	u := c.endpoint(address)
	q := u.Query()
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build read request: %w", err)
	}

	data, err := c.do(req, exchange{op: log.OpRead, address: address, size: size})
	if err != nil {
		return nil, err
	}
	return &ReadResponse{Data: data}, nil
}

// Set writes data to address.
func (c *Client) Set(ctx context.Context, address, data string) (*WriteResponse, error) {
	body, err := json.Marshal(WriteRequest{Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(address).String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	confirmed, err := c.do(req, exchange{op: log.OpWrite, address: address, data: data})
	if err != nil {
		return nil, err
	}
	return &WriteResponse{Data: confirmed}, nil
}

func (c *Client) endpoint(address string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/" + url.PathEscape(address)
	u.RawPath = ""
	return &u
}

type exchange struct {
	op      log.Operation
	address string
	size    int
	data    string
}

// dataPayload distinguishes a missing data field from an empty one.
type dataPayload struct {
	Data *string `json:"data"`
}

// do performs req and returns the data field of the JSON response.
func (c *Client) do(req *http.Request, ex exchange) (string, error) {
	seq := c.seq.Add(1)
	what := req.Method + " " + req.URL.Path

	c.session.Log(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerHTTP,
		Category:  log.CategoryMessage,
		Address:   ex.address,
		Exchange: &log.ExchangeEvent{
			Type:      log.MessageTypeRequest,
			Sequence:  seq,
			Operation: ex.op,
			Size:      ex.size,
			Data:      ex.data,
		},
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logError(ex.address, what, err, nil)
		return "", fmt.Errorf("%s: %w", what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logError(ex.address, what, err, &resp.StatusCode)
		return "", fmt.Errorf("%s: read body: %w", what, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
		c.logError(ex.address, what, serr, &resp.StatusCode)
		return "", serr
	}

	var payload dataPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		err = fmt.Errorf("%s: %w: %v", what, ErrMalformedResponse, err)
		c.logError(ex.address, what, err, &resp.StatusCode)
		return "", err
	}
	if payload.Data == nil {
		err := fmt.Errorf("%s: %w: missing data field", what, ErrMalformedResponse)
		c.logError(ex.address, what, err, &resp.StatusCode)
		return "", err
	}

	rtt := time.Since(start)
	c.session.Log(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerHTTP,
		Category:  log.CategoryMessage,
		Address:   ex.address,
		Exchange: &log.ExchangeEvent{
			Type:       log.MessageTypeResponse,
			Sequence:   seq,
			Operation:  ex.op,
			Size:       ex.size,
			Data:       *payload.Data,
			StatusCode: resp.StatusCode,
			Duration:   &rtt,
		},
	})

	return *payload.Data, nil
}

func (c *Client) logError(address, what string, err error, code *int) {
	c.session.Log(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerHTTP,
		Category:  log.CategoryError,
		Address:   address,
		Error: &log.ErrorEventData{
			Layer:   log.LayerHTTP,
			Message: err.Error(),
			Code:    code,
			Context: what,
		},
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Compile-time interface satisfaction check.
var _ API = (*Client)(nil)
