// Package modulehandler provides a composable base for protected web module handlers.
//
// Protected modules share handler infrastructure for user resolution,
// localization, and error writing. This package extracts that scaffold so
// modules embed it rather than duplicating it.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/buildboard/buildboard/internal/web/module"
	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/platform/i18n"
)

// Base carries the shared request-scoped resolvers used by protected module handlers.
type Base struct {
	resolveUserID   module.ResolveUserID
	resolveLanguage module.ResolveLanguage
}

// NewBase builds a handler base from explicit resolver functions.
func NewBase(resolveUserID module.ResolveUserID, resolveLanguage module.ResolveLanguage) Base {
	return Base{
		resolveUserID:   resolveUserID,
		resolveLanguage: resolveLanguage,
	}
}

// NewTestBase builds a handler base with fixed-identity resolvers for tests.
func NewTestBase(userID string) Base {
	return Base{
		resolveUserID:   func(*http.Request) string { return userID },
		resolveLanguage: func(*http.Request) string { return "en" },
	}
}

// RequestUserID extracts the authenticated user ID from the request.
func (b Base) RequestUserID(r *http.Request) string {
	if r == nil || b.resolveUserID == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveUserID(r))
}

// RequestContextAndUserID returns the request context and the resolved user ID.
func (b Base) RequestContextAndUserID(r *http.Request) (context.Context, string) {
	return httpx.RequestContext(r), b.RequestUserID(r)
}

// Localizer resolves a localizer for the request language.
func (b Base) Localizer(r *http.Request) i18n.Localizer {
	lang := ""
	if b.resolveLanguage != nil {
		lang = b.resolveLanguage(r)
	}
	if strings.TrimSpace(lang) == "" {
		lang = i18n.ResolveLanguage(r)
	}
	return i18n.NewLocalizer(lang)
}

// WriteError writes a localized module error response.
//
// When the typed error carries a localization key the localized message is
// surfaced; the raw error text is kept alongside for operators.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	loc := b.Localizer(r)
	message := err.Error()
	key := apperrors.LocalizationKey(err)
	if key != "" {
		message = i18n.T(loc, key)
	}
	_ = httpx.WriteJSON(w, apperrors.HTTPStatus(err), map[string]any{
		"error": message,
		"key":   key,
	})
}

// WriteNotFound writes a 404 module response.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	b.WriteError(w, r, apperrors.EK(apperrors.KindNotFound, "error.web.message.not_found", "not found"))
}
