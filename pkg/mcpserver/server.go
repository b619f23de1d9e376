// Package mcpserver provides a reusable MCP (Model Context Protocol) server framework.
//
// It speaks JSON-RPC 2.0 over stdio and HTTP, keeps sessions, runs a
// middleware chain and validates tool arguments against each tool's JSON
// Schema before the tool runs.
//
// Quick Start:
//
//	server := mcpserver.New("my-server", "1.0.0")
//	server.RegisterTool(&MyTool{})
//	server.RunStdio(ctx) // or server.RunHTTP(ctx, mcpserver.HTTPConfig{Addr: ":8080"})
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// ErrToolNotFound is returned by CallTool for unknown tool names.
var ErrToolNotFound = errors.New("tool not found")

type registeredTool struct {
	handler ToolHandler
	schema  *jsonschema.Schema
}

// Server is the core MCP server that manages tools and handles JSON-RPC requests.
type Server struct {
	name            string
	version         string
	protocolVersion string

	toolsMu sync.RWMutex
	tools   map[string]registeredTool

	sessionMu sync.Mutex
	sessions  map[string]time.Time // id -> last seen

	middleware []Middleware
	logger     *zap.SugaredLogger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithProtocolVersion overrides the advertised MCP protocol version.
func WithProtocolVersion(v string) Option {
	return func(s *Server) { s.protocolVersion = v }
}

// New creates a new MCP server with the given name and version.
func New(name, version string, opts ...Option) *Server {
	s := &Server{
		name:            name,
		version:         version,
		protocolVersion: "2024-11-05",
		tools:           make(map[string]registeredTool),
		sessions:        make(map[string]time.Time),
		logger:          zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the server name.
func (s *Server) Name() string { return s.name }

// RegisterTool adds a tool to the server after compiling its input schema.
func (s *Server) RegisterTool(tool ToolHandler) error {
	name := tool.Name()
	if name == "" {
		return errors.New("register tool: empty name")
	}

	var schema *jsonschema.Schema
	if raw := tool.InputSchema(); raw != nil {
		var err error
		if schema, err = compileSchema(name, raw); err != nil {
			return fmt.Errorf("register tool %s: %w", name, err)
		}
	}

	s.toolsMu.Lock()
	defer s.toolsMu.Unlock()
	if _, dup := s.tools[name]; dup {
		return fmt.Errorf("register tool %s: already registered", name)
	}
	s.tools[name] = registeredTool{handler: tool, schema: schema}
	s.logger.Debugw("registered tool", "name", name)
	return nil
}

// RegisterTools adds multiple tools to the server.
func (s *Server) RegisterTools(tools ...ToolHandler) error {
	for _, tool := range tools {
		if err := s.RegisterTool(tool); err != nil {
			return err
		}
	}
	return nil
}

// Use adds middleware to the server's processing chain.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// Tools returns the registered tool definitions sorted by name.
func (s *Server) Tools() []ToolDef {
	s.toolsMu.RLock()
	defer s.toolsMu.RUnlock()

	tools := make([]ToolDef, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, ToolDef{
			Name:        t.handler.Name(),
			Description: t.handler.Description(),
			InputSchema: t.handler.InputSchema(),
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// HasTool reports whether a tool with the given name is registered.
func (s *Server) HasTool(name string) bool {
	s.toolsMu.RLock()
	defer s.toolsMu.RUnlock()
	_, ok := s.tools[name]
	return ok
}

// HandleRequest processes a single JSON-RPC request and returns a response.
// Notifications return nil.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	// Apply middleware chain
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(ctx, req)
}

// HandleMessage decodes one raw JSON-RPC message and handles it.
// Malformed JSON yields a parse error response.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: CodeParseError, Message: "Parse error"},
		}
	}
	return s.HandleRequest(ctx, &req)
}

func (s *Server) coreHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	if strings.HasPrefix(req.Method, "notifications/") {
		if req.Method == "notifications/initialized" {
			s.logger.Debugw("client initialized")
		}
		return nil
	}

	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = &ToolsListResult{Tools: s.Tools()}
	case "tools/call":
		result, rpcErr := s.handleToolCall(ctx, req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: s.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: s.createSession(),
	}
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolCall(ctx context.Context, params any) (*ToolCallResult, *RPCError) {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("parse params: %v", err)}
	}

	var p callParams
	if err := json.Unmarshal(paramsBytes, &p); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf("unmarshal params: %v", err)}
	}
	if p.Name == "" {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "tool name is required"}
	}

	result, err := s.CallTool(ctx, p.Name, p.Arguments)
	if err != nil {
		return ErrorResult(err), nil
	}
	return result, nil
}

// CallTool validates args against the tool's schema and runs it.
// Validation failures and tool errors are returned as errors.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	s.toolsMu.RLock()
	tool, ok := s.tools[name]
	s.toolsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	args, err := normalizeArgs(args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
	}
	if tool.schema != nil {
		if err := tool.schema.Validate(args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %s", name, describeValidation(err))
		}
	}

	result, err := tool.handler.Execute(ctx, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = TextResult("")
	}
	return result, nil
}

// Session management

func (s *Server) createSession() string {
	id := uuid.NewString()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.sessions[id] = time.Now()
	return id
}

// CheckSession verifies if a session ID is valid and marks it as seen.
func (s *Server) CheckSession(id string) bool {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.sessions[id] = time.Now()
	return true
}

// ExpireSessions drops sessions not seen since cutoff and returns how many were removed.
func (s *Server) ExpireSessions(cutoff time.Time) int {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	n := 0
	for id, seen := range s.sessions {
		if seen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func compileSchema(name string, raw map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	url := "mem://tools/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return c.Compile(url)
}

// normalizeArgs round-trips args through JSON so the validator and tools only
// see JSON-native types.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
