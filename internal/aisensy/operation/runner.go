package operation

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/config"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"
)

// Sender sends one request upstream. *apiclient.Adapter implements it.
type Sender interface {
	Send(ctx context.Context, req *apiclient.Request) apiclient.Result
}

// Runner executes Operations against one credential.
type Runner struct {
	sender Sender
	cred   config.Credential
	logger *zap.SugaredLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner sending through sender with cred's identifiers.
func NewRunner(sender Sender, cred config.Credential, opts ...Option) *Runner {
	r := &Runner{
		sender: sender,
		cred:   cred,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates args, sends the request and returns the Result unmodified.
// Every validation failure is reported before any I/O.
func (r *Runner) Run(ctx context.Context, op Operation, args map[string]any) apiclient.Result {
	req, file, fail := r.build(op, args)
	if fail != nil {
		r.logger.Warnw("tool rejected", "tool", op.Name, "error", fail.Message)
		return *fail
	}
	if file != nil {
		defer file.Close()
	}

	result := r.sender.Send(ctx, req)
	if f, ok := result.(apiclient.Failure); ok {
		r.logger.Warnw("tool failed", "tool", op.Name, "kind", f.Kind, "error", f.Message, "status", f.StatusCode)
	} else {
		r.logger.Infow("tool succeeded", "tool", op.Name)
	}
	return result
}

func (r *Runner) build(op Operation, args map[string]any) (*apiclient.Request, *os.File, *apiclient.Failure) {
	if args == nil {
		args = map[string]any{}
	}

	// 1. Identifiers from the credential.
	var missing []string
	for _, name := range op.placeholders() {
		if p, ok := op.Param(name); ok && p.in() == InPath {
			continue
		}
		if v, _ := r.cred.ID(name); v == "" {
			missing = append(missing, name)
		}
	}
	if f := missingFields(missing); f != nil {
		return nil, nil, f
	}

	// 2. Required arguments.
	for _, p := range op.Params {
		if p.Required && !supplied(args, p.Name) {
			missing = append(missing, p.Name)
		}
	}
	if f := missingFields(missing); f != nil {
		return nil, nil, f
	}

	// 3. At least one update field.
	if len(op.AtLeastOne) > 0 {
		found := false
		for _, name := range op.AtLeastOne {
			if supplied(args, name) {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, failure(apiclient.Failf("At least one field (%s) is required to update", strings.Join(op.AtLeastOne, ", ")))
		}
	}

	// 4. Upload file.
	var (
		file     *os.File
		filePart *apiclient.FilePart
	)
	for _, p := range op.Params {
		if p.in() != InFile || !supplied(args, p.Name) {
			continue
		}
		path := formatValue(args[p.Name])
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return nil, nil, failure(apiclient.Failf("File not found: %s", path))
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, failure(apiclient.Failf("File not found: %s", path))
		}
		file = f
		filePart = &apiclient.FilePart{Field: p.key(), FileName: filepath.Base(path), Content: f}
	}

	req := &apiclient.Request{Method: op.Method, Path: r.expandPath(op, args)}

	body := map[string]any{}
	form := map[string]string{}
	for _, p := range op.Params {
		v := args[p.Name]
		if !supplied(args, p.Name) {
			if p.Default == nil {
				continue
			}
			v = p.Default
		}
		switch p.in() {
		case InBody:
			setDotted(body, p.key(), v)
		case InQuery:
			if req.Query == nil {
				req.Query = url.Values{}
			}
			req.Query.Set(p.key(), formatValue(v))
		case InForm:
			form[p.key()] = formatValue(v)
		}
	}

	switch {
	case op.multipart():
		req.Form = &apiclient.Form{Fields: form, File: filePart}
	case len(body) > 0:
		req.JSON = body
	}
	return req, file, nil
}

func (r *Runner) expandPath(op Operation, args map[string]any) string {
	return placeholderRE.ReplaceAllStringFunc(op.Path, func(m string) string {
		name := m[1 : len(m)-1]
		if p, ok := op.Param(name); ok && p.in() == InPath {
			return url.PathEscape(formatValue(args[name]))
		}
		v, _ := r.cred.ID(name)
		return url.PathEscape(v)
	})
}

func failure(f apiclient.Failure) *apiclient.Failure { return &f }

func missingFields(names []string) *apiclient.Failure {
	switch len(names) {
	case 0:
		return nil
	case 1:
		return failure(apiclient.Failf("Missing required field: %s", names[0]))
	default:
		return failure(apiclient.Failf("Missing required fields: %s", strings.Join(names, ", ")))
	}
}

// supplied reports whether args carries a non-empty value for name.
// Zero numbers and false are supplied values.
func supplied(args map[string]any, name string) bool {
	v, ok := args[name]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// setDotted stores v under a dotted key, creating nested objects.
func setDotted(m map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
