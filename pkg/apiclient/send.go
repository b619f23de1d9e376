package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const maxBodySize = 32 << 20

// Send issues req over the current Connection within the configured timeout
// and returns its Result. It never panics and never returns an error.
func (a *Adapter) Send(ctx context.Context, req *Request) (result Result) {
	ctx, span := a.tracer.Start(ctx, "upstream "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer func() {
		if r := recover(); r != nil {
			result = a.unexpected(req, fmt.Errorf("panic: %v", r))
		}
		a.observe(ctx, span, req, result)
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	httpReq, err := a.newHTTPRequest(ctx, req)
	if err != nil {
		return a.unexpected(req, err)
	}

	a.logger.Debugw("upstream request", "method", req.Method, "path", req.Path)

	resp, err := a.Acquire().Do(httpReq)
	if err != nil {
		return a.transportFailure(req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return a.transportFailure(req, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Normalize(resp.StatusCode, string(body))
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Success{}
	}
	if !json.Valid(body) {
		return a.unexpected(req, fmt.Errorf("decode response: invalid JSON body (status %d)", resp.StatusCode))
	}
	return Success{Data: json.RawMessage(body)}
}

func (a *Adapter) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := a.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func (a *Adapter) transportFailure(req *Request, err error) Result {
	f := classify(err)
	if f.Kind == KindUnexpected {
		return a.unexpected(req, err)
	}
	a.logger.Warnw(f.Message, "method", req.Method, "path", req.Path, "error", err)
	return f
}

// unexpected is the catch-all path; it is the one that logs at error level.
func (a *Adapter) unexpected(req *Request, err error) Failure {
	a.logger.Errorw("unexpected upstream failure", "method", req.Method, "path", req.Path, "error", err)
	return Failure{Kind: KindUnexpected, Message: err.Error()}
}

func (a *Adapter) observe(ctx context.Context, span trace.Span, req *Request, result Result) {
	outcome := "success"
	if f, ok := result.(Failure); ok {
		outcome = string(f.Kind)
		if f.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", f.StatusCode))
		}
		span.SetStatus(codes.Error, f.Message)
	}
	a.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("outcome", outcome),
	))
}
