package comments

import (
	"net/http"

	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
	"github.com/buildboard/buildboard/internal/web/routepath"
	"github.com/buildboard/buildboard/internal/web/storage"
)

// Module provides comment thread routes. It shares the /app/posts/ prefix
// with the vote routes, so the posts module registers it on its own mux
// instead of mounting it separately.
type Module struct {
	gateway CommentGateway
	base    modulehandler.Base
	gate    *inflight.Gate
	store   storage.Store
}

// New returns a comments module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns a comments module with explicit dependencies.
func NewWithGateway(gateway CommentGateway, base modulehandler.Base, gate *inflight.Gate, store storage.Store) Module {
	return Module{gateway: gateway, base: base, gate: gate, store: store}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "comments" }

// Healthy reports whether the comments module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Register wires comment route handlers onto the posts mux.
func (m Module) Register(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	svc := newService(m.gateway, m.gate, m.store)
	h := newHandlers(svc, m.base)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPostCommentsPattern, h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppPostCommentsPattern, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPostCommentPattern, h.WriteNotFound)
	mux.HandleFunc(http.MethodDelete+" "+routepath.AppPostCommentPattern, h.handleDelete)
}
