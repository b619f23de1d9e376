// Package auth verifies bearer tokens presented to the HTTP transport.
//
// A token is accepted when it matches one of the configured static tokens
// (stored as bcrypt hashes) or when it is an HS256 JWT signed with the
// configured secret. Either way the caller must hold every required scope.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrInsufficientScope = errors.New("insufficient scope")
)

// Config configures the Verifier. With no tokens and no secret,
// authentication is disabled.
type Config struct {
	Tokens         []StaticToken `yaml:"tokens"`
	JWTSecret      string        `yaml:"jwt_secret" env:"AISENSY_MCP_JWT_SECRET"`
	Issuer         string        `yaml:"issuer" env:"AISENSY_MCP_JWT_ISSUER"`
	RequiredScopes []string      `yaml:"required_scopes" env:"AISENSY_MCP_REQUIRED_SCOPES"`
}

// StaticToken is a pre-shared token. Hash is the bcrypt hash of the token.
type StaticToken struct {
	Hash     string   `yaml:"hash"`
	ClientID string   `yaml:"client_id"`
	Scopes   []string `yaml:"scopes"`
}

// Enabled reports whether any credential source is configured.
func (c Config) Enabled() bool {
	return len(c.Tokens) > 0 || c.JWTSecret != ""
}

// Claims is the JWT payload. The subject is the client id.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Identity is a verified caller.
type Identity struct {
	ClientID string
	Scopes   []string
}

// Verifier checks bearer tokens.
type Verifier struct {
	tokens   []StaticToken
	secret   []byte
	issuer   string
	required []string
	now      func() time.Time
}

// NewVerifier validates cfg and builds a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	for i, t := range cfg.Tokens {
		if t.ClientID == "" {
			return nil, fmt.Errorf("auth: token %d: client_id is required", i)
		}
		if _, err := bcrypt.Cost([]byte(t.Hash)); err != nil {
			return nil, fmt.Errorf("auth: token %s: hash is not a bcrypt hash: %w", t.ClientID, err)
		}
	}
	return &Verifier{
		tokens:   cfg.Tokens,
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		required: cfg.RequiredScopes,
		now:      time.Now,
	}, nil
}

// Verify returns the identity behind token.
func (v *Verifier) Verify(_ context.Context, token string) (Identity, error) {
	id, err := v.identify(token)
	if err != nil {
		return Identity{}, err
	}
	for _, need := range v.required {
		if !contains(id.Scopes, need) {
			return Identity{}, fmt.Errorf("%w: %s", ErrInsufficientScope, need)
		}
	}
	return id, nil
}

// Authenticate implements mcpserver.Authenticator.
func (v *Verifier) Authenticate(ctx context.Context, token string) (string, error) {
	id, err := v.Verify(ctx, token)
	if err != nil {
		return "", err
	}
	return id.ClientID, nil
}

func (v *Verifier) identify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	if len(v.secret) > 0 && strings.Count(token, ".") == 2 {
		if id, err := v.parseJWT(token); err == nil {
			return id, nil
		}
	}
	for _, t := range v.tokens {
		if bcrypt.CompareHashAndPassword([]byte(t.Hash), []byte(token)) == nil {
			return Identity{ClientID: t.ClientID, Scopes: t.Scopes}, nil
		}
	}
	return Identity{}, ErrInvalidToken
}

func (v *Verifier) parseJWT(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Identity{ClientID: claims.Subject, Scopes: claims.Scopes}, nil
}

// HashToken returns the bcrypt hash to store for a static token.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

// IssueToken signs an HS256 JWT for clientID. A zero ttl means no expiry.
func IssueToken(secret, issuer, clientID string, scopes []string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("issue token: jwt secret is required")
	}
	if clientID == "" {
		return "", errors.New("issue token: client id is required")
	}
	claims := &Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  clientID,
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
