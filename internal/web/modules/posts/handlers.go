package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
)

// voteService defines the service operations used by post handlers.
type voteService interface {
	voteState(ctx context.Context, userID string, postID string) (VoteState, error)
	toggleVote(ctx context.Context, userID string, postID string, direction string) (VoteState, error)
}

type handlers struct {
	modulehandler.Base
	service voteService
}

func newHandlers(s *service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleVotes(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.PathValue("postID"))
	if postID == "" {
		h.WriteNotFound(w, r)
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	state, err := h.service.voteState(ctx, userID, postID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, voteView(postID, state))
}

func (h handlers) handleVote(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.PathValue("postID"))
	if postID == "" {
		h.WriteNotFound(w, r)
		return
	}
	var payload struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_input", "invalid vote payload"))
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	state, err := h.service.toggleVote(ctx, userID, postID, payload.Direction)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, voteView(postID, state))
}
