package web

import (
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/buildboard/buildboard/internal/web/module"
	"github.com/buildboard/buildboard/internal/web/session"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return Config{
		HTTPAddr:    "localhost:0",
		APIBaseURL:  "http://api.internal.test",
		CacheDBPath: filepath.Join(t.TempDir(), "web-cache.db"),
		Session: session.Config{
			Issuer:   "buildboard-api",
			Audience: "buildboard-web",
			Key:      pub,
		},
	}
}

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.HTTPAddr = " "
	if _, err := NewServer(cfg); err == nil {
		t.Fatalf("expected http address error")
	}
}

func TestNewServerRequiresSessionKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Session.Key = nil
	if _, err := NewServer(cfg); err == nil {
		t.Fatalf("expected session key error")
	}
}

func TestNewServerRequiresAbsoluteAPIBaseURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.APIBaseURL = "api.internal.test/v1"
	if _, err := NewServer(cfg); err == nil {
		t.Fatalf("expected api base url error")
	}
}

func TestServerServesHealth(t *testing.T) {
	t.Parallel()

	server, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("X-Request-ID"); got == "" {
		t.Fatalf("expected request id header")
	}
}

func TestServerServesMetrics(t *testing.T) {
	t.Parallel()

	server, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestServerRejectsAnonymousModuleRoutes(t *testing.T) {
	t.Parallel()

	server, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()

	for _, path := range []string{"/app/posts/p-1/votes", "/app/notifications/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		server.httpServer.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status for %s = %d, want %d", path, rr.Code, http.StatusUnauthorized)
		}
	}
}

type staticReporter bool

func (r staticReporter) Healthy() bool { return bool(r) }

func TestHealthHandlerReportsDegradedModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reporters []module.HealthReporter
		want      int
	}{
		{name: "all healthy", reporters: []module.HealthReporter{staticReporter(true), staticReporter(true)}, want: http.StatusOK},
		{name: "one degraded", reporters: []module.HealthReporter{staticReporter(true), staticReporter(false)}, want: http.StatusServiceUnavailable},
		{name: "nil reporter", reporters: []module.HealthReporter{nil}, want: http.StatusServiceUnavailable},
		{name: "no reporters", reporters: nil, want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()
			healthHandler(tc.reporters).ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
