package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buildboard/buildboard/internal/web/platform/sessioncookie"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvSessionIssuer, "")
	t.Setenv(EnvSessionAudience, "")
	t.Setenv(EnvSessionPublicKey, "")

	if _, err := LoadConfigFromEnv(nil); err == nil {
		t.Fatal("expected error when env vars are missing")
	}

	pubKey, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	t.Setenv(EnvSessionIssuer, "issuer")
	t.Setenv(EnvSessionAudience, "web")
	t.Setenv(EnvSessionPublicKey, base64.RawStdEncoding.EncodeToString(pubKey))

	cfg, err := LoadConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load session config: %v", err)
	}
	if cfg.Issuer != "issuer" || cfg.Audience != "web" {
		t.Fatal("expected issuer and audience to be loaded")
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		t.Fatalf("expected public key size %d", ed25519.PublicKeySize)
	}
}

func TestVerifyTokenSuccess(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signSessionToken(t, priv, map[string]any{
		"alg": "EdDSA",
		"typ": "JWT",
	}, map[string]any{
		"iss":     "issuer",
		"aud":     []string{"web", "secondary"},
		"exp":     now.Add(2 * time.Hour).Unix(),
		"iat":     now.Add(-time.Minute).Unix(),
		"jti":     "jti-1",
		"user_id": "user-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "web", Key: pub, Now: func() time.Time { return now }}
	claims, err := VerifyToken(token, cfg)
	if err != nil {
		t.Fatalf("verify session token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("claims.UserID = %q, want %q", claims.UserID, "user-1")
	}
	if !claims.ExpiresAt.Equal(time.Unix(now.Add(2*time.Hour).Unix(), 0).UTC()) {
		t.Fatal("expected expires at to match exp")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signSessionToken(t, priv, map[string]any{"alg": "EdDSA"}, map[string]any{
		"iss":     "issuer",
		"aud":     "web",
		"exp":     now.Add(-time.Minute).Unix(),
		"user_id": "user-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "web", Key: pub, Now: func() time.Time { return now }}
	if _, err := VerifyToken(token, cfg); err == nil {
		t.Fatal("expected expired token error")
	}
}

func TestVerifyTokenRejectsIssuerMismatch(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signSessionToken(t, priv, map[string]any{"alg": "EdDSA"}, map[string]any{
		"iss":     "someone-else",
		"aud":     "web",
		"exp":     now.Add(time.Hour).Unix(),
		"user_id": "user-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "web", Key: pub, Now: func() time.Time { return now }}
	if _, err := VerifyToken(token, cfg); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate other key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signSessionToken(t, otherPriv, map[string]any{"alg": "EdDSA"}, map[string]any{
		"iss":     "issuer",
		"aud":     "web",
		"exp":     now.Add(time.Hour).Unix(),
		"user_id": "user-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "web", Key: pub, Now: func() time.Time { return now }}
	if _, err := VerifyToken(token, cfg); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestResolveUserIDFromCookie(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signSessionToken(t, priv, map[string]any{"alg": "EdDSA"}, map[string]any{
		"iss":     "issuer",
		"aud":     "web",
		"exp":     now.Add(time.Hour).Unix(),
		"user_id": "user-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "web", Key: pub, Now: func() time.Time { return now }}

	r := httptest.NewRequest(http.MethodGet, "/app/notifications", nil)
	r.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: token})
	if got := cfg.ResolveUserID(r); got != "user-1" {
		t.Fatalf("ResolveUserID() = %q, want %q", got, "user-1")
	}
	if !cfg.SignedIn(r) {
		t.Fatal("expected request to be signed in")
	}

	anonymous := httptest.NewRequest(http.MethodGet, "/app/notifications", nil)
	if got := cfg.ResolveUserID(anonymous); got != "" {
		t.Fatalf("ResolveUserID() = %q, want empty for anonymous request", got)
	}
}

func signSessionToken(t *testing.T, privateKey ed25519.PrivateKey, header, payload map[string]any) string {
	t.Helper()

	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	encodedHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signingInput := encodedHeader + "." + encodedPayload
	signature := ed25519.Sign(privateKey, []byte(signingInput))
	encodedSig := base64.RawURLEncoding.EncodeToString(signature)
	return signingInput + "." + encodedSig
}
