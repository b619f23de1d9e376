package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const maxRequestBody = 10 << 20

// Authenticator verifies the bearer token of an HTTP request and returns the
// client id it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (clientID string, err error)
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Addr            string
	AllowedOrigins  []string
	Auth            Authenticator // nil disables authentication
	ShutdownTimeout time.Duration
}

// RunHTTP serves the MCP endpoint and the REST tool endpoints until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) RunHTTP(ctx context.Context, cfg HTTPConfig) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.HTTPHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Infow("starting HTTP server", "addr", cfg.Addr, "tools", len(s.Tools()), "auth", cfg.Auth != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Infow("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// HTTPHandler builds the HTTP routes:
//
//	POST /mcp               JSON-RPC 2.0 (session required after initialize)
//	GET  /api/tools         tool definitions
//	POST /api/tools/{name}  call a tool with a JSON object of arguments
//	GET  /health            public liveness probe
func (s *Server) HTTPHandler(cfg HTTPConfig) http.Handler {
	hs := &httpServer{server: s, auth: cfg.Auth}

	router := mux.NewRouter()
	router.HandleFunc("/health", hs.handleHealth).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(hs.authMiddleware)
	api.HandleFunc("/mcp", hs.handleMCPRequest).Methods(http.MethodPost)
	api.HandleFunc("/api/tools", hs.handleToolsList).Methods(http.MethodGet)
	api.HandleFunc("/api/tools/{name}", hs.handleToolCall).Methods(http.MethodPost)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Mcp-Session-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	})
	return c.Handler(router)
}

type httpServer struct {
	server *Server
	auth   Authenticator
}

func (hs *httpServer) authMiddleware(next http.Handler) http.Handler {
	if hs.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		clientID, err := hs.auth.Authenticate(r.Context(), token)
		if err != nil {
			hs.server.logger.Warnw("authentication failed", "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

func (hs *httpServer) handleMCPRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: CodeParseError, Message: "Parse error"},
		})
		return
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusOK, &JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: CodeParseError, Message: "Parse error"},
		})
		return
	}

	// Validate session for non-initialize requests
	if req.Method != "initialize" {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID == "" || !hs.server.CheckSession(sessionID) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
	}

	resp := hs.server.HandleRequest(r.Context(), &req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	// Set session ID header for initialize response
	if req.Method == "initialize" && resp.Error == nil {
		if result, ok := resp.Result.(*InitializeResult); ok && result.SessionID != "" {
			w.Header().Set("Mcp-Session-Id", result.SessionID)
		}
	}

	// Choose response format based on Accept header
	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		sendSSE(w, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func sendSSE(w http.ResponseWriter, resp *JSONRPCResponse) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	respBytes, _ := json.Marshal(resp)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", respBytes)
	flusher.Flush()
}

func (hs *httpServer) handleToolsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &ToolsListResult{Tools: hs.server.Tools()})
}

func (hs *httpServer) handleToolCall(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	args := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
	}

	if !hs.server.HasTool(name) {
		writeJSON(w, http.StatusNotFound, ErrorResult(fmt.Errorf("%w: %s", ErrToolNotFound, name)))
		return
	}

	// Route through the middleware chain like a tools/call message.
	resp := hs.server.HandleRequest(r.Context(), &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		Params:  map[string]any{"name": name, "arguments": args},
	})
	if resp.Error != nil {
		writeJSON(w, http.StatusBadRequest, resp.Error)
		return
	}
	writeJSON(w, http.StatusOK, resp.Result)
}

func (hs *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"server":    hs.server.name,
		"version":   hs.server.version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
