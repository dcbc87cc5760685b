package notifications

import (
	"net/http"

	"github.com/buildboard/buildboard/internal/web/module"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
	"github.com/buildboard/buildboard/internal/web/routepath"
	"github.com/buildboard/buildboard/internal/web/storage"
)

// Module provides authenticated notification routes with invitation state
// resolution.
type Module struct {
	gateway NotificationGateway
	base    modulehandler.Base
	gate    *inflight.Gate
	store   storage.Store
}

// New returns a notifications module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns a notifications module with explicit dependencies.
func NewWithGateway(gateway NotificationGateway, base modulehandler.Base, gate *inflight.Gate, store storage.Store) Module {
	return Module{gateway: gateway, base: base, gate: gate, store: store}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "notifications" }

// Healthy reports whether the notifications module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires notifications route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.gate, m.store)
	h := newHandlers(svc, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Notifications, Handler: mux}, nil
}
