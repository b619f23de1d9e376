package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("AISENSY_API_KEY", "partner-key")
	t.Setenv("AISENSY_PARTNER_ID", "p-1")
	t.Setenv("AISENSY_DIRECT_API_TOKEN", "direct-token")
	t.Setenv("AISENSY_HTTP_TIMEOUT", "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPartnerBaseURL, cfg.Partner.BaseURL)
	assert.Equal(t, DefaultDirectBaseURL, cfg.Direct.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.ConnLifetime)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)

	p := cfg.PartnerCredential()
	assert.Equal(t, "partner-key", p.Header().Get("X-AiSensy-Partner-API-Key"))
	id, ok := p.ID("partner_id")
	assert.True(t, ok)
	assert.Equal(t, "p-1", id)
	id, ok = p.ID("business_id")
	assert.True(t, ok)
	assert.Empty(t, id)

	d := cfg.DirectCredential()
	assert.Equal(t, "Bearer direct-token", d.Header().Get("Authorization"))
	_, ok = d.ID("partner_id")
	assert.False(t, ok)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
partner:
  api_key: file-key
  partner_id: p-9
  business_id: b-9
  base_url: http://localhost:9999/partner
http:
  timeout: 10s
  conn_lifetime: 1m
server:
  transport: http
  addr: 127.0.0.1:7000
  auth:
    jwt_secret: s3cret
    required_scopes: [read:data]
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/partner", cfg.PartnerCredential().BaseURL())
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Auth.Enabled())
	assert.Equal(t, []string{"read:data"}, cfg.Server.Auth.RequiredScopes)
	assert.Equal(t, "debug", cfg.Log.Level)

	ac := cfg.PartnerCredential().AdapterConfig(cfg.HTTP)
	assert.Equal(t, "http://localhost:9999/partner", ac.BaseURL)
	assert.Equal(t, time.Minute, ac.ConnLifetime)
	assert.Equal(t, "file-key", ac.Header.Get("X-AiSensy-Partner-API-Key"))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Server.Transport = "grpc"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.HTTP.Timeout = 0
	assert.Error(t, bad.Validate())
}

func TestCredential_IsImmutable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Partner.APIKey = "k"
	cred := cfg.PartnerCredential()

	h := cred.Header()
	h.Set("X-AiSensy-Partner-API-Key", "tampered")
	cfg.Partner.APIKey = "changed"

	assert.Equal(t, "k", cred.Header().Get("X-AiSensy-Partner-API-Key"))
	assert.NotContains(t, cred.String(), "k}")
	assert.Contains(t, cred.String(), "<redacted>")
}

func TestDirect_NoTokenNoHeader(t *testing.T) {
	assert.Empty(t, DefaultConfig().DirectCredential().Header().Get("Authorization"))
}
