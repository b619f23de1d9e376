package mcpserver

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware logs all incoming requests and their results.
func LoggingMiddleware(logger *zap.SugaredLogger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
			start := time.Now()
			resp := next(ctx, req)

			kv := []any{"method", req.Method, "id", req.ID, "duration", time.Since(start)}
			if client := ClientID(ctx); client != "" {
				kv = append(kv, "client", client)
			}
			if name := toolName(req); name != "" {
				kv = append(kv, "tool", name)
			}

			switch {
			case resp != nil && resp.Error != nil:
				logger.Errorw("mcp error", append(kv, "code", resp.Error.Code, "message", resp.Error.Message)...)
			case resp != nil && isToolError(resp):
				logger.Warnw("mcp tool error", kv...)
			default:
				logger.Infow("mcp request", kv...)
			}
			return resp
		}
	}
}

// RecoveryMiddleware catches panics and returns a JSON-RPC error.
func RecoveryMiddleware(logger *zap.SugaredLogger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *JSONRPCRequest) (resp *JSONRPCResponse) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorw("panic in MCP handler", "method", req.Method, "panic", r)
					resp = &JSONRPCResponse{
						JSONRPC: "2.0",
						ID:      req.ID,
						Error: &RPCError{
							Code:    CodeInternalError,
							Message: "Internal error",
						},
					}
				}
			}()
			return next(ctx, req)
		}
	}
}

func toolName(req *JSONRPCRequest) string {
	if req.Method != "tools/call" {
		return ""
	}
	if m, ok := req.Params.(map[string]any); ok {
		name, _ := m["name"].(string)
		return name
	}
	return ""
}

func isToolError(resp *JSONRPCResponse) bool {
	r, ok := resp.Result.(*ToolCallResult)
	return ok && r.IsError
}
