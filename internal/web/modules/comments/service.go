package comments

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/metrics"
	"github.com/buildboard/buildboard/internal/web/storage"
)

const (
	commentGateKind       = "post.comment"
	commentDeleteGateKind = "post.comment.delete"
)

const commentCacheTTL = 30 * time.Second

// CommentGateway loads comment threads and submits comment mutations.
type CommentGateway interface {
	GetThread(ctx context.Context, postID string) (Thread, error)
	CreateComment(ctx context.Context, userID string, postID string, content string, parentID string) error
	DeleteComment(ctx context.Context, userID string, postID string, commentID string) error
}

type service struct {
	gateway CommentGateway
	gate    *inflight.Gate
	store   storage.Store
}

func newService(gateway CommentGateway, gate *inflight.Gate, store storage.Store) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway, gate: gate, store: store}
}

// requireViewer validates and returns a trimmed user ID, or returns an
// unauthorized error prompting sign-in.
func requireViewer(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.EK(apperrors.KindUnauthorized, "web.comment.sign_in_required", "sign in to comment")
	}
	return userID, nil
}

// thread returns the post's comment tree through the cache.
func (s service) thread(ctx context.Context, postID string) (Thread, error) {
	resolvedPostID := strings.TrimSpace(postID)
	if resolvedPostID == "" {
		return Thread{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	return storage.ReadThrough(ctx, s.store, storage.ScopePostComments, resolvedPostID, "", commentCacheTTL, func(ctx context.Context) (Thread, error) {
		return s.gateway.GetThread(ctx, resolvedPostID)
	})
}

// createComment submits a new root comment or reply. When replyTo names any
// comment in the thread, the created reply attaches to that comment's root.
// There is no optimistic insertion: success invalidates the thread cache and
// the next read is authoritative.
func (s service) createComment(ctx context.Context, userID string, postID string, content string, replyTo string) error {
	resolvedUserID, err := requireViewer(userID)
	if err != nil {
		return err
	}
	resolvedPostID := strings.TrimSpace(postID)
	if resolvedPostID == "" {
		return apperrors.E(apperrors.KindNotFound, "post not found")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_input", "comment content is required")
	}

	parentID := ""
	if strings.TrimSpace(replyTo) != "" {
		thread, err := s.thread(ctx, resolvedPostID)
		if err != nil {
			return err
		}
		target, ok := ComposeTarget(thread.Roots, replyTo)
		if !ok {
			return apperrors.E(apperrors.KindNotFound, "comment not found")
		}
		parentID = target
	}

	gateKey := inflight.NewKey(commentGateKind, resolvedUserID+"/"+resolvedPostID)
	if !s.gate.TryAcquire(gateKey, nil) {
		metrics.GateConflicts.WithLabelValues(commentGateKind).Inc()
		return apperrors.EK(apperrors.KindConflict, "web.comment.pending", "a comment submission for this post is already in flight")
	}
	defer s.gate.Settle(gateKey)

	if err := s.gateway.CreateComment(ctx, resolvedUserID, resolvedPostID, content, parentID); err != nil {
		metrics.CommentMutations.WithLabelValues("create", metrics.ResultError).Inc()
		return apperrors.EK(apperrors.KindOf(err), "web.comment.create_failed", err.Error())
	}
	storage.Invalidate(ctx, s.store, storage.ScopePostComments, resolvedPostID)
	metrics.CommentMutations.WithLabelValues("create", metrics.ResultOK).Inc()
	return nil
}

// deleteComment soft-deletes a comment after the per-comment permission
// check: comment author or post author may delete. The server re-checks;
// this guard only prevents issuing requests that can never succeed.
func (s service) deleteComment(ctx context.Context, userID string, postID string, commentID string) error {
	resolvedUserID, err := requireViewer(userID)
	if err != nil {
		return err
	}
	resolvedPostID := strings.TrimSpace(postID)
	if resolvedPostID == "" {
		return apperrors.E(apperrors.KindNotFound, "post not found")
	}
	resolvedCommentID := strings.TrimSpace(commentID)
	if resolvedCommentID == "" {
		return apperrors.E(apperrors.KindNotFound, "comment not found")
	}

	thread, err := s.thread(ctx, resolvedPostID)
	if err != nil {
		return err
	}
	author, found := findAuthor(thread.Roots, resolvedCommentID)
	if !found {
		return apperrors.E(apperrors.KindNotFound, "comment not found")
	}
	if !CanDelete(author, thread.PostAuthorID, resolvedUserID) {
		return apperrors.EK(apperrors.KindForbidden, "error.web.message.forbidden", "not allowed to delete this comment")
	}

	gateKey := inflight.NewKey(commentDeleteGateKind, resolvedCommentID)
	if !s.gate.TryAcquire(gateKey, nil) {
		metrics.GateConflicts.WithLabelValues(commentDeleteGateKind).Inc()
		return apperrors.EK(apperrors.KindConflict, "web.comment.pending", "this comment is already being deleted")
	}
	defer s.gate.Settle(gateKey)

	if err := s.gateway.DeleteComment(ctx, resolvedUserID, resolvedPostID, resolvedCommentID); err != nil {
		metrics.CommentMutations.WithLabelValues("delete", metrics.ResultError).Inc()
		return apperrors.EK(apperrors.KindOf(err), "web.comment.delete_failed", err.Error())
	}
	storage.Invalidate(ctx, s.store, storage.ScopePostComments, resolvedPostID)
	metrics.CommentMutations.WithLabelValues("delete", metrics.ResultOK).Inc()
	return nil
}
