package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, baseURL string) *Adapter {
	t.Helper()
	a := New(Config{
		BaseURL: baseURL,
		Header:  http.Header{"X-Aisensy-Partner-Api-Key": []string{"secret"}},
	})
	t.Cleanup(func() { a.Close() })
	return a
}

func envelope(t *testing.T, r Result) map[string]any {
	t.Helper()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestSend_Success(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"id":"abc","items":[1,2]}`)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL+"/")
	res := a.Send(context.Background(), &Request{Method: http.MethodGet, Path: "/business"})

	require.True(t, res.OK())
	assert.JSONEq(t, `{"id":"abc","items":[1,2]}`, string(res.(Success).Data))
	assert.JSONEq(t, `{"success":true,"data":{"id":"abc","items":[1,2]}}`, mustJSON(t, res))

	require.NotNil(t, got)
	assert.Equal(t, "/business", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "secret", got.Header.Get("X-AiSensy-Partner-API-Key"))
}

func TestSend_CreatedWithJSONBodyAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"API TEST PROJECT 1"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"p1"}`)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	res := a.Send(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/project",
		Query:  url.Values{"from": {"2024-01-01"}},
		JSON:   map[string]any{"name": "API TEST PROJECT 1"},
	})

	require.True(t, res.OK())
	assert.JSONEq(t, `{"id":"p1"}`, string(res.(Success).Data))
}

func TestSend_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := newTestAdapter(t, srv.URL).Send(context.Background(), &Request{Method: http.MethodDelete, Path: "/media"})
	require.True(t, res.OK())
	assert.JSONEq(t, `{"success":true,"data":null}`, mustJSON(t, res))
}

func TestSend_InvalidJSONIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>ok</html>")
	}))
	defer srv.Close()

	res := newTestAdapter(t, srv.URL).Send(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	f, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindUnexpected, f.Kind)
	assert.Contains(t, f.Message, "invalid JSON")
}

func TestSend_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, "invalid email")
	}))
	defer srv.Close()

	res := newTestAdapter(t, srv.URL).Send(context.Background(), &Request{Method: http.MethodPost, Path: "/business"})
	require.False(t, res.OK())
	assert.Equal(t, map[string]any{
		"success":     false,
		"error":       "Validation error",
		"status_code": float64(422),
		"details":     "invalid email",
	}, envelope(t, res))
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	defer a.Close()

	res := a.Send(context.Background(), &Request{Method: http.MethodGet, Path: "/slow"})
	f, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, f.Kind)
	assert.JSONEq(t, `{"success":false,"error":"Request timeout"}`, mustJSON(t, res))
}

func TestSend_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	res := newTestAdapter(t, base).Send(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	f, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindTransport, f.Kind)
	assert.JSONEq(t, `{"success":false,"error":"Network connection error"}`, mustJSON(t, res))
}

func TestSend_UntrustedCertificateIsNetworkError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	res := newTestAdapter(t, srv.URL).Send(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	f, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindTransport, f.Kind)
	assert.JSONEq(t, `{"success":false,"error":"Network connection error"}`, mustJSON(t, res))
}

type panicky struct{}

func (panicky) MarshalJSON() ([]byte, error) { panic("boom") }

func TestSend_PanicBecomesFailure(t *testing.T) {
	a := newTestAdapter(t, "http://127.0.0.1:1")
	var res Result
	require.NotPanics(t, func() {
		res = a.Send(context.Background(), &Request{Method: http.MethodPost, Path: "/", JSON: panicky{}})
	})
	f, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindUnexpected, f.Kind)
	assert.Equal(t, "panic: boom", f.Message)
}

func TestSend_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		assert.Equal(t, "128", r.FormValue("fileOffset"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "photo.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(content))
		io.WriteString(w, `{"h":"handle"}`)
	}))
	defer srv.Close()

	res := newTestAdapter(t, srv.URL).Send(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/media/session/s1",
		Form: &Form{
			Fields: map[string]string{"fileOffset": "128"},
			File:   &FilePart{Field: "file", FileName: "photo.png", Content: strings.NewReader("PNGDATA")},
		},
	})
	require.True(t, res.OK(), mustJSON(t, res))
}

func TestConnectionReuse(t *testing.T) {
	var opened atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	srv.Config.ConnState = func(_ net.Conn, s http.ConnState) {
		if s == http.StateNew {
			opened.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	first := a.Acquire()
	require.True(t, a.Send(context.Background(), &Request{Method: http.MethodGet, Path: "/a"}).OK())
	require.True(t, a.Send(context.Background(), &Request{Method: http.MethodGet, Path: "/b"}).OK())

	assert.Same(t, first, a.Acquire())
	assert.Equal(t, int32(1), opened.Load())
}

func TestClose_DropsSocketOfInFlightRequest(t *testing.T) {
	var closedConns atomic.Int32
	entered := make(chan struct{})
	unblock := make(chan struct{})
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-unblock
		io.WriteString(w, `{}`)
	}))
	srv.Config.ConnState = func(_ net.Conn, s http.ConnState) {
		if s == http.StateClosed {
			closedConns.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	conn := a.Acquire()
	done := make(chan Result, 1)
	go func() {
		done <- a.Send(context.Background(), &Request{Method: http.MethodGet, Path: "/slow"})
	}()

	<-entered
	assert.Equal(t, int64(1), conn.inflight.Load())
	require.NoError(t, a.Close())
	close(unblock)

	require.True(t, (<-done).OK())
	assert.Equal(t, int64(0), conn.inflight.Load())
	assert.Eventually(t, func() bool { return closedConns.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestClose_IsIdempotent(t *testing.T) {
	a := New(Config{BaseURL: "http://example.invalid"})
	require.NoError(t, a.Close())

	c1 := a.Acquire()
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.True(t, c1.Closed())

	c2 := a.Acquire()
	assert.NotSame(t, c1, c2)
	assert.False(t, c2.Closed())
	require.NoError(t, a.Close())
}

func TestAcquire_ReplacesClosedConnection(t *testing.T) {
	a := New(Config{BaseURL: "http://example.invalid"})
	defer a.Close()

	c1 := a.Acquire()
	c1.close()
	c2 := a.Acquire()
	assert.NotSame(t, c1, c2)
	assert.False(t, c2.Closed())
}

func TestAcquire_ReplacesExpiredConnection(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := New(Config{BaseURL: "http://example.invalid", ConnLifetime: time.Minute})
	a.now = func() time.Time { return now }
	defer a.Close()

	c1 := a.Acquire()
	now = now.Add(30 * time.Second)
	assert.Same(t, c1, a.Acquire())

	now = now.Add(time.Minute)
	c2 := a.Acquire()
	assert.NotSame(t, c1, c2)
	assert.True(t, c1.Closed())
}

func TestAcquire_ConcurrentCallersShareOneConnection(t *testing.T) {
	a := New(Config{BaseURL: "http://example.invalid"})
	defer a.Close()

	const n = 16
	conns := make([]*Connection, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conns[i] = a.Acquire()
		}(i)
	}
	wg.Wait()

	for _, c := range conns {
		assert.Same(t, conns[0], c)
	}
}

func TestUse_ClosesAdapter(t *testing.T) {
	var conn *Connection
	err := Use(Config{BaseURL: "http://example.invalid"}, func(a *Adapter) error {
		conn = a.Acquire()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, conn.Closed())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
