// Package octane talks to the ALM Octane REST API: an authenticated
// transport, the entity catalog, and name/id lookups for the work item tree.
package octane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/octanebridge/octane/internal/debug"
	"github.com/octanebridge/octane/internal/telemetry"
)

const (
	techPreviewHeader = "ALM_OCTANE_TECH_PREVIEW"
	userAgent         = "octane-bridge/1.0"
)

// limits bounds a Client's pool and its waits. readTimeout applies to every
// socket read, headers and body alike.
type limits struct {
	maxConnections int
	connectTimeout time.Duration
	acquireTimeout time.Duration
	readTimeout    time.Duration
}

var defaultLimits = limits{
	maxConnections: 5,
	connectTimeout: 5 * time.Second,
	acquireTimeout: 5 * time.Second,
	readTimeout:    10 * time.Second,
}

// Requester issues one JSON request relative to the workspace API root.
// out may be nil when the response body is not needed.
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error
}

// Client is the authenticated Transport for a single host operation.
// Create one per operation and Close it when the operation ends.
type Client struct {
	conn       *ConnectionConfig
	creds      Credentials
	HTTPClient *http.Client

	limits    limits
	transport *http.Transport
	slots     chan struct{}
	closed    atomic.Bool
}

// NewClient builds a Transport. proxy may be nil for a direct connection.
func NewClient(conn *ConnectionConfig, creds Credentials, proxy *ProxyConfig) (*Client, error) {
	return newClientWithLimits(conn, creds, proxy, defaultLimits)
}

func newClientWithLimits(conn *ConnectionConfig, creds Credentials, proxy *ProxyConfig, l limits) (*Client, error) {
	if conn == nil {
		return nil, configError("connection configuration is missing")
	}
	if strings.TrimSpace(creds.Username) == "" {
		return nil, configError("Octane user name must be specified")
	}

	dialer := &net.Dialer{
		Timeout:   l.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		c, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return &deadlineConn{Conn: c, timeout: l.readTimeout}, nil
	}
	tr := &http.Transport{
		DialContext:           dial,
		TLSHandshakeTimeout:   l.connectTimeout,
		ResponseHeaderTimeout: l.readTimeout,
		MaxIdleConns:          l.maxConnections,
		MaxIdleConnsPerHost:   l.maxConnections,
		MaxConnsPerHost:       l.maxConnections,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	if proxy != nil {
		tr.Proxy = http.ProxyURL(proxy.URL())
		debug.Logf("octane: using proxy %s\n", proxy.Addr())
	}

	return &Client{
		conn:  conn,
		creds: creds,
		HTTPClient: &http.Client{
			Transport: telemetry.WrapTransport(tr),
		},
		limits:    l,
		transport: tr,
		slots:     make(chan struct{}, l.maxConnections),
	}, nil
}

// deadlineConn fails any read that waits longer than timeout for data.
// Writing a request restarts the clock for a read already pending on a
// reused connection.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}

// Config returns the connection the client was built for.
func (c *Client) Config() *ConnectionConfig {
	return c.conn
}

// Close releases pooled connections. Further requests fail.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.transport.CloseIdleConnections()
	return nil
}

// Do sends method to path (relative to the workspace API root), encoding body
// as JSON when non-nil and decoding the response into out when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	op := method + " " + path
	if c.closed.Load() {
		return PreconditionError(op, "transport is closed")
	}

	release, err := c.acquire(ctx, op)
	if err != nil {
		return err
	}
	defer release()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindPrecondition, Op: op, Message: "encode request body", Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), bodyReader)
	if err != nil {
		return &Error{Kind: KindConfiguration, Op: op, Message: "create request", Err: err}
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header[techPreviewHeader] = []string{"true"}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Message: "read response", Err: err}
	}
	debug.Logf("octane: %s -> %d (%s)\n", op, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, Op: op, Message: "invalid Octane credentials"}
	case resp.StatusCode == http.StatusProxyAuthRequired:
		return &Error{Kind: KindProxyAuthentication, Op: op, Message: "invalid proxy credentials"}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &Error{
			Kind:       KindRequest,
			Op:         op,
			Message:    "request failed",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindResponse, Op: op, Message: "decode response", Err: err}
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.conn.APIRoot() + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		// Octane expects %20 rather than '+' inside query expressions.
		u += "?" + strings.ReplaceAll(query.Encode(), "+", "%20")
	}
	return u
}

// acquire takes one of the pool slots, giving up after the acquire timeout.
func (c *Client) acquire(ctx context.Context, op string) (func(), error) {
	timer := time.NewTimer(c.limits.acquireTimeout)
	defer timer.Stop()
	select {
	case c.slots <- struct{}{}:
		return func() { <-c.slots }, nil
	case <-timer.C:
		return nil, &Error{Kind: KindTransport, Op: op, Message: "timed out waiting for a free connection"}
	case <-ctx.Done():
		return nil, &Error{Kind: KindTransport, Op: op, Err: ctx.Err()}
	}
}

func transportError(op string, err error) error {
	// A failed CONNECT through an authenticating proxy surfaces as a client
	// error rather than a 407 response.
	if strings.Contains(err.Error(), http.StatusText(http.StatusProxyAuthRequired)) {
		return &Error{Kind: KindProxyAuthentication, Op: op, Message: "invalid proxy credentials", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &Error{Kind: KindTransport, Op: op, Message: fmt.Sprintf("request failed: %v", err), Err: err}
}
