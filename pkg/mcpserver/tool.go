package mcpserver

import "context"

// ToolHandler is the interface for MCP tools.
type ToolHandler interface {
	// Name returns the unique tool name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input.
	// A nil schema disables argument validation.
	InputSchema() map[string]any

	// Execute runs the tool with arguments that already passed InputSchema.
	Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error)
}

// BaseTool provides a base implementation for common tool fields.
// Embed this in your tool structs and implement Execute().
type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolSchema      map[string]any

	// Metadata for tool discovery
	Category string
	Tags     []string
}

func (t *BaseTool) Name() string                { return t.ToolName }
func (t *BaseTool) Description() string         { return t.ToolDescription }
func (t *BaseTool) InputSchema() map[string]any { return t.ToolSchema }

// ToolFunc adapts a plain function to ToolHandler.
type ToolFunc struct {
	BaseTool
	Fn func(ctx context.Context, args map[string]any) (*ToolCallResult, error)
}

// Execute calls Fn.
func (t *ToolFunc) Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	return t.Fn(ctx, args)
}

// Middleware is a function that wraps a request handler.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc is a function that handles a JSON-RPC request.
type HandlerFunc func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse

type contextKey string

const clientIDKey = contextKey("clientID")

// WithClientID returns a context carrying the authenticated client id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientID returns the authenticated client id, or "" for unauthenticated calls.
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}
