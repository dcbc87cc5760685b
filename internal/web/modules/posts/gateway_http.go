package posts

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/buildboard/buildboard/internal/web/platform/apiclient"
	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

// HTTPGateway adapts the platform API to the VoteGateway contract.
type HTTPGateway struct {
	api apiclient.Doer
}

// NewHTTPGateway wraps a platform API client as a vote gateway.
func NewHTTPGateway(api apiclient.Doer) HTTPGateway {
	return HTTPGateway{api: api}
}

var _ VoteGateway = HTTPGateway{}

// GetVoteSnapshot loads the authoritative voter sets for a post.
func (g HTTPGateway) GetVoteSnapshot(ctx context.Context, postID string) (VoteSnapshot, error) {
	if g.api == nil {
		return VoteSnapshot{}, apperrors.E(apperrors.KindUnavailable, "posts service is not configured")
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return VoteSnapshot{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	var payload struct {
		ID         string   `json:"id"`
		Upvoters   []string `json:"upvoters"`
		Downvoters []string `json:"downvoters"`
	}
	err := g.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/posts/" + url.PathEscape(postID),
	}, &payload)
	if err != nil {
		return VoteSnapshot{}, err
	}
	return VoteSnapshot{PostID: payload.ID, Upvoters: payload.Upvoters, Downvoters: payload.Downvoters}, nil
}

// SubmitVote requests the authoritative toggle mutation for a post.
func (g HTTPGateway) SubmitVote(ctx context.Context, userID string, postID string, direction string) error {
	if g.api == nil {
		return apperrors.E(apperrors.KindUnavailable, "posts service is not configured")
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperrors.E(apperrors.KindNotFound, "post not found")
	}
	return g.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/posts/" + url.PathEscape(postID) + "/vote",
		Body: struct {
			VoteType string `json:"vote_type"`
		}{VoteType: direction},
		UserID:     userID,
		Idempotent: true,
	}, nil)
}
