package comments

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
)

// commentService defines the service operations used by comment handlers.
type commentService interface {
	thread(ctx context.Context, postID string) (Thread, error)
	createComment(ctx context.Context, userID string, postID string, content string, replyTo string) error
	deleteComment(ctx context.Context, userID string, postID string, commentID string) error
}

type handlers struct {
	modulehandler.Base
	service commentService
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.PathValue("postID"))
	if postID == "" {
		h.WriteNotFound(w, r)
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	thread, err := h.service.thread(ctx, postID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, threadView(thread, userID, h.Localizer(r)))
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.PathValue("postID"))
	if postID == "" {
		h.WriteNotFound(w, r)
		return
	}
	var payload struct {
		Content string `json:"content"`
		ReplyTo string `json:"reply_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_input", "invalid comment payload"))
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	if err := h.service.createComment(ctx, userID, postID, payload.Content, payload.ReplyTo); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.PathValue("postID"))
	commentID := strings.TrimSpace(r.PathValue("commentID"))
	if postID == "" || commentID == "" {
		h.WriteNotFound(w, r)
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	if err := h.service.deleteComment(ctx, userID, postID, commentID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
