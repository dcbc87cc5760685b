package posts

import (
	"net/http"

	"github.com/buildboard/buildboard/internal/web/module"
	"github.com/buildboard/buildboard/internal/web/modules/comments"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
	"github.com/buildboard/buildboard/internal/web/routepath"
	"github.com/buildboard/buildboard/internal/web/storage"
)

// Module provides authenticated post routes: vote state and toggling, plus
// the comment thread routes registered by the comments package. Both route
// groups share the /app/posts/ mount, so this module owns the mux for the
// whole prefix.
type Module struct {
	gateway  VoteGateway
	comments comments.Module
	base     modulehandler.Base
	gate     *inflight.Gate
	store    storage.Store
}

// New returns a posts module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{comments: comments.New()}
}

// NewWithGateway returns a posts module with explicit dependencies.
func NewWithGateway(gateway VoteGateway, commentsModule comments.Module, base modulehandler.Base, gate *inflight.Gate, store storage.Store) Module {
	return Module{gateway: gateway, comments: commentsModule, base: base, gate: gate, store: store}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "posts" }

// Healthy reports whether both post route groups have operational gateways.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	if _, unavailable := m.gateway.(unavailableGateway); unavailable {
		return false
	}
	return m.comments.Healthy()
}

// Mount wires vote and comment route handlers under the posts prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.gate, m.store)
	h := newHandlers(svc, m.base)
	registerRoutes(mux, h)
	m.comments.Register(mux)
	return module.Mount{Prefix: routepath.PostsPrefix, Handler: mux}, nil
}
