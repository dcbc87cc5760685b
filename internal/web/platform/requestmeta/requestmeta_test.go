package requestmeta

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPSTrustsForwardedProtoOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://board.example/app/posts", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	if IsHTTPS(req, SchemePolicy{}) {
		t.Fatalf("IsHTTPS = true without TrustForwardedProto, want false")
	}
	if !IsHTTPS(req, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatalf("IsHTTPS = false with TrustForwardedProto, want true")
	}
}

func TestHasSameOriginProofAcceptsMatchingOrigin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://board.example/app/posts/p1/vote", nil)
	req.Header.Set("Origin", "http://board.example")
	if !HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = false, want true")
	}
}

func TestHasSameOriginProofRejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://board.example/app/posts/p1/vote", nil)
	req.Header.Set("Origin", "http://evil.example")
	if HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = true for foreign origin, want false")
	}
}

func TestHasSameOriginProofFallsBackToReferer(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://board.example/app/posts/p1/vote", nil)
	req.Header.Set("Referer", "http://board.example/app/posts/p1")
	if !HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = false with same-origin referer, want true")
	}
}

func TestHasSameOriginProofRequiresProofHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://board.example/app/posts/p1/vote", nil)
	if HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = true without Origin/Referer, want false")
	}
}

func TestHasSameOriginProofComparesPorts(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://board.example:8086/app/posts/p1/vote", nil)
	req.Header.Set("Origin", "http://board.example:9000")
	if HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = true across ports, want false")
	}
	req.Header.Set("Origin", "http://board.example:8086")
	if !HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatalf("HasSameOriginProof = false for matching port, want true")
	}
}
