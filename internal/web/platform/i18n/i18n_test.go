package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveLanguageDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ResolveLanguage(req); got != "en" {
		t.Fatalf("ResolveLanguage = %q, want %q", got, "en")
	}
	if got := ResolveLanguage(nil); got != "en" {
		t.Fatalf("ResolveLanguage(nil) = %q, want %q", got, "en")
	}
}

func TestResolveLanguageMatchesBrazilianPortuguese(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")
	if got := ResolveLanguage(req); got != "pt-BR" {
		t.Fatalf("ResolveLanguage = %q, want %q", got, "pt-BR")
	}
}

func TestResolveLanguageIgnoresMalformedHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", ";;;")
	if got := ResolveLanguage(req); got != "en" {
		t.Fatalf("ResolveLanguage = %q, want %q", got, "en")
	}
}

func TestLocalizerFallsBackToEnglishThenKey(t *testing.T) {
	t.Parallel()

	loc := NewLocalizer("pt-BR")
	if got := loc("web.invite.accepted"); got != "Aceito" {
		t.Fatalf("loc(accepted) = %q, want %q", got, "Aceito")
	}
	// Key translated in English only.
	if got := loc("web.comment.pending"); got != "A comment for this post is already being submitted." {
		t.Fatalf("loc(pending) = %q, want English fallback", got)
	}
	if got := loc("web.never.translated"); got != "web.never.translated" {
		t.Fatalf("loc(unknown) = %q, want key fallback", got)
	}
}

func TestTIsNilSafe(t *testing.T) {
	t.Parallel()

	if got := T(nil, "web.invite.inactive"); got != "Invitation no longer active" {
		t.Fatalf("T(nil, key) = %q, want English message", got)
	}
}
