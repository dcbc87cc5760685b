// Package web hosts the Buildboard browser-facing HTTP service.
//
// The service composes feature modules over the platform API: vote and
// comment routes under /app/posts/ and notification routes under
// /app/notifications/. All module routes require a verified session; health
// and metrics surfaces stay public.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/buildboard/buildboard/internal/platform/timeouts"
	"github.com/buildboard/buildboard/internal/web/app"
	"github.com/buildboard/buildboard/internal/web/module"
	"github.com/buildboard/buildboard/internal/web/modules/comments"
	"github.com/buildboard/buildboard/internal/web/modules/notifications"
	"github.com/buildboard/buildboard/internal/web/modules/posts"
	"github.com/buildboard/buildboard/internal/web/platform/apiclient"
	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/platform/i18n"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/metrics"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
	"github.com/buildboard/buildboard/internal/web/platform/requestmeta"
	"github.com/buildboard/buildboard/internal/web/routepath"
	"github.com/buildboard/buildboard/internal/web/session"
	"github.com/buildboard/buildboard/internal/web/storage"
	"github.com/buildboard/buildboard/internal/web/storage/sqlite"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr    string
	APIBaseURL  string
	APITimeout  time.Duration
	CacheDBPath string
	Session     session.Config
	// SchemePolicy controls X-Forwarded-Proto trust for same-origin checks.
	SchemePolicy requestmeta.SchemePolicy
}

// Server hosts the web HTTP server and its cache store.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      storage.Store
}

// NewServer builds a configured web server.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if len(cfg.Session.Key) == 0 {
		return nil, errors.New("session verification key is required")
	}

	api, err := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		return nil, fmt.Errorf("build platform API client: %w", err)
	}

	var store storage.Store
	if path := strings.TrimSpace(cfg.CacheDBPath); path != "" {
		sqliteStore, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open cache store: %w", err)
		}
		store = sqliteStore
	}

	handler, reporters, err := buildHandler(cfg, api, store)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	root := http.NewServeMux()
	root.Handle("GET "+routepath.Health, healthHandler(reporters))
	root.Handle("GET "+routepath.Metrics, metrics.Handler())
	root.Handle("/", handler)

	wrapped := httpx.Chain(root, httpx.RequestID(), httpx.RecoverPanic())

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otelhttp.NewHandler(wrapped, "buildboard.web"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// buildHandler assembles the module groups into the composed app handler.
func buildHandler(cfg Config, api apiclient.Doer, store storage.Store) (http.Handler, []module.HealthReporter, error) {
	gate := inflight.New()
	base := modulehandler.NewBase(cfg.Session.ResolveUserID, i18n.ResolveLanguage)

	commentsModule := comments.NewWithGateway(comments.NewHTTPGateway(api), base, gate, store)
	postsModule := posts.NewWithGateway(posts.NewHTTPGateway(api), commentsModule, base, gate, store)
	notificationsModule := notifications.NewWithGateway(notifications.NewHTTPGateway(api), base, gate, store)

	handler, err := app.Compose(app.ComposeInput{
		AuthRequired:        cfg.Session.SignedIn,
		ProtectedModules:    []module.Module{postsModule, notificationsModule},
		RequestSchemePolicy: cfg.SchemePolicy,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("compose modules: %w", err)
	}
	return handler, []module.HealthReporter{postsModule, notificationsModule}, nil
}

// healthHandler reports aggregate module health. Any degraded module flips
// the response to 503 so load balancers stop routing to this instance.
func healthHandler(reporters []module.HealthReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		for _, reporter := range reporters {
			if reporter == nil || !reporter.Healthy() {
				status = http.StatusServiceUnavailable
				break
			}
		}
		payload := map[string]string{"status": "ok"}
		if status != http.StatusOK {
			payload["status"] = "degraded"
		}
		_ = httpx.WriteJSON(w, status, payload)
	})
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation it performs a bounded shutdown so in-flight requests are
// drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("web server is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the cache store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close cache store: %v", err)
		}
	}
}
