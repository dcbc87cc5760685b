// Package session verifies platform-issued session access tokens.
//
// The platform API signs browser session tokens with an ed25519 key; the web
// service only holds the public half and resolves the acting viewer from the
// session cookie per request. A token that fails any check resolves to an
// anonymous request rather than an error, because protected routes enforce
// sign-in themselves.
package session

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/buildboard/buildboard/internal/web/platform/sessioncookie"
)

// Environment variable names for session token verification.
const (
	EnvSessionIssuer    = "BUILDBOARD_SESSION_ISSUER"
	EnvSessionAudience  = "BUILDBOARD_SESSION_AUDIENCE"
	EnvSessionPublicKey = "BUILDBOARD_SESSION_PUBLIC_KEY"
)

// sessionEnv holds raw env values before post-parse validation.
type sessionEnv struct {
	Issuer    string `env:"BUILDBOARD_SESSION_ISSUER"`
	Audience  string `env:"BUILDBOARD_SESSION_AUDIENCE"`
	PublicKey string `env:"BUILDBOARD_SESSION_PUBLIC_KEY"`
}

// Config defines how session access tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims captures validated session token claims.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
	IssuedAt  time.Time
	JWTID     string
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// LoadConfigFromEnv reads session verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw sessionEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("BUILDBOARD_SESSION_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("BUILDBOARD_SESSION_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("BUILDBOARD_SESSION_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode session public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("session public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken verifies a session access token and returns its claims.
func VerifyToken(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, errors.New("session token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("session verifier is not configured")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("parse session token: %w", err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, errors.New("session token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, errors.New("session token audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, errors.New("session token exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, errors.New("session token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, errors.New("session token not active yet")
	}
	if strings.TrimSpace(parsed.UserID) == "" {
		return Claims{}, errors.New("session token user id is required")
	}

	claims := Claims{
		UserID:    strings.TrimSpace(parsed.UserID),
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// ResolveUserID returns the verified viewer id for a request, or "" for
// anonymous and invalid sessions.
func (cfg Config) ResolveUserID(r *http.Request) string {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return ""
	}
	claims, err := VerifyToken(token, cfg)
	if err != nil {
		return ""
	}
	return claims.UserID
}

// SignedIn reports whether a request carries a valid session.
func (cfg Config) SignedIn(r *http.Request) bool {
	return cfg.ResolveUserID(r) != ""
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
