package apiclient

import (
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Connection is one reusable transport session bound to a base URL and a set
// of fixed headers. It is safe for concurrent use until closed.
type Connection struct {
	client    *http.Client
	transport *http.Transport
	header    http.Header
	createdAt time.Time
	closed    atomic.Bool
	inflight  atomic.Int64
}

func newConnection(header http.Header, now time.Time, logger *zap.SugaredLogger) *Connection {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warnw("http2 not enabled on upstream transport", "error", err)
	}

	return &Connection{
		// Timeouts are enforced per request through the context.
		client:    &http.Client{Transport: transport},
		transport: transport,
		header:    header.Clone(),
		createdAt: now,
	}
}

// Closed reports whether the connection has been released.
func (c *Connection) Closed() bool {
	return c.closed.Load()
}

// CreatedAt returns when the connection was opened.
func (c *Connection) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Connection) expired(lifetime time.Duration, now time.Time) bool {
	return lifetime > 0 && now.Sub(c.createdAt) >= lifetime
}

// Do sends req after applying the fixed headers the request does not already carry.
// The caller must close the response body.
func (c *Connection) Do(req *http.Request) (*http.Response, error) {
	for k, vs := range c.header {
		if req.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.inflight.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		c.release()
		return nil, err
	}
	resp.Body = &trackedBody{ReadCloser: resp.Body, conn: c}
	return resp, nil
}

// release ends one request. The last request on a closed connection drops
// the socket it handed back to the pool.
func (c *Connection) release() {
	if c.inflight.Add(-1) == 0 && c.closed.Load() {
		c.transport.CloseIdleConnections()
	}
}

// close marks the connection closed and drops its idle sockets. In-flight
// requests finish normally and their sockets are dropped on release.
func (c *Connection) close() {
	if c.closed.CompareAndSwap(false, true) {
		c.transport.CloseIdleConnections()
	}
}

type trackedBody struct {
	io.ReadCloser
	conn *Connection
	once sync.Once
}

func (b *trackedBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.conn.release)
	return err
}
