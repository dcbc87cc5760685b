// Package web wires configuration for the browser-facing web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/buildboard/buildboard/internal/platform/otel"
	"github.com/buildboard/buildboard/internal/web"
	"github.com/buildboard/buildboard/internal/web/platform/requestmeta"
	"github.com/buildboard/buildboard/internal/web/session"
)

const (
	defaultHTTPAddr   = "localhost:8090"
	defaultAPIBaseURL = "http://localhost:8080"
	defaultAPITimeout = 10 * time.Second
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string
	APIBaseURL          string
	APITimeout          time.Duration
	CacheDBPath         string
	TrustForwardedProto bool
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config, with environment fallbacks.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr:            envOrDefault(lookup, "BUILDBOARD_WEB_HTTP_ADDR", defaultHTTPAddr),
		APIBaseURL:          envOrDefault(lookup, "BUILDBOARD_WEB_API_BASE_URL", defaultAPIBaseURL),
		APITimeout:          defaultAPITimeout,
		CacheDBPath:         envOrDefault(lookup, "BUILDBOARD_WEB_CACHE_DB_PATH", ""),
		TrustForwardedProto: envBool(lookup, "BUILDBOARD_WEB_TRUST_FORWARDED_PROTO"),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Platform API base URL")
	fs.StringVar(&cfg.CacheDBPath, "cache-db-path", cfg.CacheDBPath, "SQLite cache path (empty disables the read cache)")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from the fronting proxy")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the web server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "buildboard-web")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	sessionCfg, err := session.LoadConfigFromEnv(nil)
	if err != nil {
		return fmt.Errorf("load session config: %w", err)
	}

	server, err := web.NewServer(web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		APIBaseURL:   cfg.APIBaseURL,
		APITimeout:   cfg.APITimeout,
		CacheDBPath:  cfg.CacheDBPath,
		Session:      sessionCfg,
		SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

func envOrDefault(lookup EnvLookup, key string, fallback string) string {
	if lookup == nil {
		return fallback
	}
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func envBool(lookup EnvLookup, key string) bool {
	if lookup == nil {
		return false
	}
	value, ok := lookup(key)
	if !ok {
		return false
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed
}
