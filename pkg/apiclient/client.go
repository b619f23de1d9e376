// Package apiclient is the single way tools talk to the upstream REST API.
//
// An Adapter owns one reusable Connection, sends Request descriptors over it
// and turns every outcome, including panics and transport errors, into a
// Result envelope. It never retries and never returns a Go error to callers.
package apiclient

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"

// Config holds the settings of one Adapter.
type Config struct {
	BaseURL      string        `yaml:"base_url" json:"base_url"`
	Header       http.Header   `yaml:"-" json:"-"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" json:"conn_lifetime"`
}

// DefaultConfig returns a Config with the default timeout and connection lifetime.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		ConnLifetime: 15 * time.Minute,
	}
}

// Adapter sends requests to one upstream base URL with one set of credentials.
type Adapter struct {
	cfg    Config
	header http.Header
	conn   atomic.Pointer[Connection]

	logger   *zap.SugaredLogger
	tracer   trace.Tracer
	requests metric.Int64Counter
	now      func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) { a.tracer = tp.Tracer(instrumentationName) }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Adapter) { a.requests = newRequestCounter(mp.Meter(instrumentationName)) }
}

// New creates an Adapter. No connection is opened until the first Acquire or Send.
func New(cfg Config, opts ...Option) *Adapter {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ConnLifetime < 0 {
		cfg.ConnLifetime = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Content-Type", "application/json")
	for k, vs := range cfg.Header {
		header.Del(k)
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	a := &Adapter{
		cfg:    cfg,
		header: header,
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(instrumentationName)
	}
	if a.requests == nil {
		a.requests = newRequestCounter(otel.Meter(instrumentationName))
	}
	return a
}

// Use runs fn with a fresh Adapter and closes it on every exit path.
func Use(cfg Config, fn func(*Adapter) error, opts ...Option) error {
	a := New(cfg, opts...)
	defer a.Close()
	return fn(a)
}

// BaseURL returns the upstream base URL without a trailing slash.
func (a *Adapter) BaseURL() string {
	return a.cfg.BaseURL
}

// Acquire returns the live Connection, opening a new one when there is none
// or the current one is closed or past its lifetime. At most one Connection
// is open per Adapter.
func (a *Adapter) Acquire() *Connection {
	for {
		cur := a.conn.Load()
		now := a.now()
		if cur != nil && !cur.Closed() && !cur.expired(a.cfg.ConnLifetime, now) {
			return cur
		}

		next := newConnection(a.header, now, a.logger)
		if a.conn.CompareAndSwap(cur, next) {
			if cur != nil {
				cur.close()
			}
			a.logger.Debugw("opened upstream connection", "base_url", a.cfg.BaseURL)
			return next
		}
		// Another caller replaced it first; use theirs.
		next.close()
	}
}

// Close releases the current Connection. It is safe to call repeatedly and
// before any connection exists; a later Acquire opens a new one.
func (a *Adapter) Close() error {
	if cur := a.conn.Swap(nil); cur != nil {
		cur.close()
		a.logger.Debugw("closed upstream connection", "base_url", a.cfg.BaseURL)
	}
	return nil
}

func newRequestCounter(m metric.Meter) metric.Int64Counter {
	c, err := m.Int64Counter(
		"aisensy.upstream.requests",
		metric.WithDescription("Upstream API calls by method and outcome."),
	)
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
