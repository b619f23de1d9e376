// Package config provides aisensy-mcp configuration management.
package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/auth"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"
	appconfig "github.com/RobinCoderZhao/aisensy-mcp/pkg/config"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/logging"
)

// Default upstream base URLs.
const (
	DefaultPartnerBaseURL = "https://apis.aisensy.com/partner-apis/v1"
	DefaultDirectBaseURL  = "https://backend.aisensy.com/direct-apis/t1"
)

// Transports accepted by ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const fileName = ".aisensy-mcp.yaml"

// Config is the process configuration.
type Config struct {
	Partner PartnerConfig  `yaml:"partner"`
	Direct  DirectConfig   `yaml:"direct"`
	HTTP    HTTPConfig     `yaml:"http"`
	Server  ServerConfig   `yaml:"server"`
	Log     logging.Config `yaml:"log"`
}

// PartnerConfig holds the partner (business onboarding) API credentials.
type PartnerConfig struct {
	APIKey     string `yaml:"api_key" env:"AISENSY_API_KEY"`
	PartnerID  string `yaml:"partner_id" env:"AISENSY_PARTNER_ID"`
	BusinessID string `yaml:"business_id" env:"AISENSY_BUSINESS_ID"`
	BaseURL    string `yaml:"base_url" env:"AISENSY_BASE_URL"`
}

// DirectConfig holds the direct API credentials.
type DirectConfig struct {
	Token   string `yaml:"token" env:"AISENSY_DIRECT_API_TOKEN"`
	BaseURL string `yaml:"base_url" env:"AISENSY_DIRECT_BASE_URL"`
}

// HTTPConfig tunes the upstream adapter.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" env:"AISENSY_HTTP_TIMEOUT"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"AISENSY_HTTP_CONN_LIFETIME"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	Name           string      `yaml:"name" env:"AISENSY_MCP_NAME"`
	Transport      string      `yaml:"transport" env:"AISENSY_MCP_TRANSPORT"`
	Addr           string      `yaml:"addr" env:"AISENSY_MCP_ADDR"`
	AllowedOrigins []string    `yaml:"allowed_origins" env:"AISENSY_MCP_ALLOWED_ORIGINS"`
	Auth           auth.Config `yaml:"auth"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	def := apiclient.DefaultConfig()
	return Config{
		Partner: PartnerConfig{BaseURL: DefaultPartnerBaseURL},
		Direct:  DirectConfig{BaseURL: DefaultDirectBaseURL},
		HTTP: HTTPConfig{
			Timeout:      def.Timeout,
			ConnLifetime: def.ConnLifetime,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Addr:      ":8080",
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads configuration from path. With an empty path it looks for
// .aisensy-mcp.yaml in the working directory, then in the home directory.
// Environment variables override file values in every case.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = discover()
	}
	if err := appconfig.LoadOrDefault(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func discover() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, fileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks settings that would make the process unusable.
// Missing upstream identifiers are not errors; tools report them per call.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("config: unknown transport %q (want %s or %s)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("config: http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.HTTP.ConnLifetime < 0 {
		return fmt.Errorf("config: http.conn_lifetime must not be negative, got %s", c.HTTP.ConnLifetime)
	}
	if c.Partner.BaseURL == "" || c.Direct.BaseURL == "" {
		return fmt.Errorf("config: base urls must not be empty")
	}
	return nil
}

// PartnerCredential returns the partner API credential.
func (c Config) PartnerCredential() Credential {
	return Credential{
		baseURL:     c.Partner.BaseURL,
		headerName:  "X-AiSensy-Partner-API-Key",
		headerValue: c.Partner.APIKey,
		ids: map[string]string{
			"partner_id":  c.Partner.PartnerID,
			"business_id": c.Partner.BusinessID,
		},
	}
}

// DirectCredential returns the direct API credential.
func (c Config) DirectCredential() Credential {
	value := ""
	if c.Direct.Token != "" {
		value = "Bearer " + c.Direct.Token
	}
	return Credential{
		baseURL:     c.Direct.BaseURL,
		headerName:  "Authorization",
		headerValue: value,
	}
}

// Credential is an immutable set of upstream credentials: a base URL, one
// auth header and the account identifiers used in path templates.
type Credential struct {
	baseURL     string
	headerName  string
	headerValue string
	ids         map[string]string
}

// BaseURL returns the upstream base URL.
func (c Credential) BaseURL() string { return c.baseURL }

// Header returns a fresh copy of the auth header.
func (c Credential) Header() http.Header {
	h := http.Header{}
	if c.headerValue != "" {
		h.Set(c.headerName, c.headerValue)
	}
	return h
}

// ID returns an account identifier such as partner_id. ok is false when the
// credential does not carry that identifier at all.
func (c Credential) ID(name string) (value string, ok bool) {
	value, ok = c.ids[name]
	return value, ok
}

// AdapterConfig builds the apiclient configuration for this credential.
func (c Credential) AdapterConfig(h HTTPConfig) apiclient.Config {
	return apiclient.Config{
		BaseURL:      c.baseURL,
		Header:       c.Header(),
		Timeout:      h.Timeout,
		ConnLifetime: h.ConnLifetime,
	}
}

// String hides the secret.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{%s %s: %s}", c.baseURL, c.headerName, redact(c.headerValue))
}

func redact(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "<redacted>"
}
