package comments

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
)

func testThread() Thread {
	return Thread{
		PostID:       "post-1",
		PostAuthorID: "user-1",
		Roots:        testThreadRoots(),
	}
}

func TestNewServiceFailsClosedWhenGatewayMissing(t *testing.T) {
	t.Parallel()

	svc := newService(nil, inflight.New(), nil)
	_, err := svc.thread(context.Background(), "post-1")
	if err == nil {
		t.Fatalf("expected unavailable error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusServiceUnavailable)
	}
}

func TestCreateCommentRequiresSignIn(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{thread: testThread()}
	svc := newService(gateway, inflight.New(), nil)
	err := svc.createComment(context.Background(), "  ", "post-1", "hello", "")
	if err == nil {
		t.Fatalf("expected sign-in error")
	}
	if got := apperrors.LocalizationKey(err); got != "web.comment.sign_in_required" {
		t.Fatalf("LocalizationKey(err) = %q, want %q", got, "web.comment.sign_in_required")
	}
	if len(gateway.createdContents) != 0 {
		t.Fatal("expected no comment creation for anonymous viewer")
	}
}

func TestCreateCommentRequiresContent(t *testing.T) {
	t.Parallel()

	svc := newService(&fakeGateway{thread: testThread()}, inflight.New(), nil)
	err := svc.createComment(context.Background(), "user-9", "post-1", "   ", "")
	if err == nil {
		t.Fatalf("expected content error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusBadRequest {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestCreateRootCommentOmitsParent(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{thread: testThread()}
	svc := newService(gateway, inflight.New(), nil)
	if err := svc.createComment(context.Background(), "user-9", "post-1", "hello", ""); err != nil {
		t.Fatalf("createComment() error = %v", err)
	}
	if len(gateway.createdParentIDs) != 1 || gateway.createdParentIDs[0] != "" {
		t.Fatalf("createdParentIDs = %v, want one empty parent", gateway.createdParentIDs)
	}
}

func TestCreateReplyToReplyTargetsRootComment(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{thread: testThread()}
	svc := newService(gateway, inflight.New(), nil)
	if err := svc.createComment(context.Background(), "user-9", "post-1", "me too", "reply-1"); err != nil {
		t.Fatalf("createComment() error = %v", err)
	}
	if len(gateway.createdParentIDs) != 1 || gateway.createdParentIDs[0] != "root-1" {
		t.Fatalf("createdParentIDs = %v, want [root-1]", gateway.createdParentIDs)
	}
}

func TestCreateReplyToUnknownCommentFails(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{thread: testThread()}
	svc := newService(gateway, inflight.New(), nil)
	err := svc.createComment(context.Background(), "user-9", "post-1", "me too", "missing")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusNotFound)
	}
	if len(gateway.createdParentIDs) != 0 {
		t.Fatal("expected no creation for unknown reply target")
	}
}

func TestCreateCommentRefusesOverlappingSubmission(t *testing.T) {
	t.Parallel()

	gate := inflight.New()
	if !gate.TryAcquire(inflight.NewKey(commentGateKind, "user-9/post-1"), nil) {
		t.Fatal("setup: expected acquire to succeed")
	}

	svc := newService(&fakeGateway{thread: testThread()}, gate, nil)
	err := svc.createComment(context.Background(), "user-9", "post-1", "hello", "")
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusConflict {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusConflict)
	}
	if got := apperrors.LocalizationKey(err); got != "web.comment.pending" {
		t.Fatalf("LocalizationKey(err) = %q, want %q", got, "web.comment.pending")
	}
}

func TestCreateCommentSurfacesGatewayFailure(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{thread: testThread(), createErr: errors.New("rejected")}
	svc := newService(gateway, inflight.New(), nil)
	err := svc.createComment(context.Background(), "user-9", "post-1", "hello", "")
	if err == nil {
		t.Fatalf("expected create failure")
	}
	if got := apperrors.LocalizationKey(err); got != "web.comment.create_failed" {
		t.Fatalf("LocalizationKey(err) = %q, want %q", got, "web.comment.create_failed")
	}

	// The gate releases on failure so the control stays actionable.
	gateway.createErr = nil
	if err := svc.createComment(context.Background(), "user-9", "post-1", "hello", ""); err != nil {
		t.Fatalf("retry createComment() error = %v", err)
	}
}

func TestDeleteCommentPermissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		viewerID   string
		commentID  string
		wantStatus int
	}{
		{name: "comment author may delete", viewerID: "user-3", commentID: "reply-1", wantStatus: 0},
		{name: "post author may delete", viewerID: "user-1", commentID: "reply-1", wantStatus: 0},
		{name: "unrelated viewer denied", viewerID: "user-9", commentID: "reply-1", wantStatus: http.StatusForbidden},
		{name: "unknown comment", viewerID: "user-1", commentID: "missing", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gateway := &fakeGateway{thread: testThread()}
			svc := newService(gateway, inflight.New(), nil)
			err := svc.deleteComment(context.Background(), tc.viewerID, "post-1", tc.commentID)
			if tc.wantStatus == 0 {
				if err != nil {
					t.Fatalf("deleteComment() error = %v", err)
				}
				if len(gateway.deletedIDs) != 1 || gateway.deletedIDs[0] != tc.commentID {
					t.Fatalf("deletedIDs = %v, want [%s]", gateway.deletedIDs, tc.commentID)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected delete error")
			}
			if got := apperrors.HTTPStatus(err); got != tc.wantStatus {
				t.Fatalf("HTTPStatus(err) = %d, want %d", got, tc.wantStatus)
			}
			if len(gateway.deletedIDs) != 0 {
				t.Fatal("expected no deletion request")
			}
		})
	}
}

func TestDeleteCommentRefusesOverlappingDeletion(t *testing.T) {
	t.Parallel()

	gate := inflight.New()
	if !gate.TryAcquire(inflight.NewKey(commentDeleteGateKind, "reply-1"), nil) {
		t.Fatal("setup: expected acquire to succeed")
	}

	svc := newService(&fakeGateway{thread: testThread()}, gate, nil)
	err := svc.deleteComment(context.Background(), "user-1", "post-1", "reply-1")
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusConflict {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusConflict)
	}
}
