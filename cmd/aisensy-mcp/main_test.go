package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/config"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aisensy-mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"+body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "aisensy-mcp dev\n", out)
}

func TestTools(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "tools", "--api", "direct", "--config", cfg)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 49)
	assert.Contains(t, out, "send_message")

	out, err = execute(t, "tools", "--config", cfg)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 19)
	assert.True(t, strings.HasPrefix(out, "create_business_profile"), out)
}

func TestTools_UnknownAPI(t *testing.T) {
	_, err := execute(t, "tools", "--api", "billing", "--config", writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown api "billing"`)
}

func TestCall(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotKey = r.URL.Path, r.Header.Get("X-AiSensy-Partner-API-Key")
		_, _ = io.WriteString(w, `{"name":"Acme Partner"}`)
	}))
	defer srv.Close()

	cfg := writeConfig(t, "partner:\n  base_url: "+srv.URL+"\n  api_key: k1\n  partner_id: p1\n")

	out, err := execute(t, "call", "get_partner_details", "--config", cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"name":"Acme Partner"}}`, out)
	assert.Equal(t, "/partner/p1", gotPath)
	assert.Equal(t, "k1", gotKey)
}

func TestCall_FailureEnvelope(t *testing.T) {
	cfg := writeConfig(t, "partner:\n  base_url: http://127.0.0.1:1\n")

	out, err := execute(t, "call", "get_partner_details", "--config", cfg)
	require.Error(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Missing required field: partner_id"}`, out)
}

func TestCall_BadArgs(t *testing.T) {
	cfg := writeConfig(t, "")

	_, err := execute(t, "call", "create_project", "--args", "{not json", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse --args")

	_, err = execute(t, "call", "create_project", "--args", `{"name": 5}`, "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments for create_project")
}

func TestTokenHash(t *testing.T) {
	out, err := execute(t, "token", "hash", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))
}

func TestTokenIssue(t *testing.T) {
	cfg := writeConfig(t, "server:\n  auth:\n    jwt_secret: topsecret\n    issuer: aisensy-mcp\n")

	out, err := execute(t, "token", "issue", "--client-id", "ci", "--scopes", "tools:call,tools:list", "--config", cfg)
	require.NoError(t, err)

	v, err := auth.NewVerifier(auth.Config{JWTSecret: "topsecret", Issuer: "aisensy-mcp"})
	require.NoError(t, err)
	id, err := v.Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci", id.ClientID)
	assert.Equal(t, []string{"tools:call", "tools:list"}, id.Scopes)
}

func TestTokenIssue_NeedsSecret(t *testing.T) {
	_, err := execute(t, "token", "issue", "--client-id", "ci", "--config", writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestHTTPConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Addr = ":9090"
	cfg.Server.AllowedOrigins = []string{"https://app.example.test"}

	logger := zap.NewNop().Sugar()
	hc, err := httpConfig(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, ":9090", hc.Addr)
	assert.Nil(t, hc.Auth)

	cfg.Server.Auth.JWTSecret = "s"
	hc, err = httpConfig(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, hc.Auth)

	cfg.Server.Auth.Tokens = []auth.StaticToken{{ClientID: "ci", Hash: "plain"}}
	_, err = httpConfig(cfg, logger)
	assert.Error(t, err)
}
