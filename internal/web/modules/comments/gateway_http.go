package comments

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buildboard/buildboard/internal/web/platform/apiclient"
	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

// commentRecord is the wire shape of one comment. It is recursive because
// the payload embeds replies, but only the first two levels are mapped;
// anything deeper is dropped rather than trusted.
type commentRecord struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Author    *authorRecord   `json:"author"`
	CreatedAt time.Time       `json:"createdAt"`
	IsDeleted bool            `json:"isDeleted"`
	Replies   []commentRecord `json:"replies"`
}

type authorRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HTTPGateway adapts the platform API to the CommentGateway contract.
type HTTPGateway struct {
	api apiclient.Doer
}

// NewHTTPGateway wraps a platform API client as a comment gateway.
func NewHTTPGateway(api apiclient.Doer) HTTPGateway {
	return HTTPGateway{api: api}
}

var _ CommentGateway = HTTPGateway{}

// GetThread loads a post's comment tree.
func (g HTTPGateway) GetThread(ctx context.Context, postID string) (Thread, error) {
	if g.api == nil {
		return Thread{}, apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return Thread{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	var payload struct {
		PostID       string          `json:"post_id"`
		PostAuthorID string          `json:"post_author_id"`
		Comments     []commentRecord `json:"comments"`
	}
	err := g.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/posts/" + url.PathEscape(postID) + "/comments",
	}, &payload)
	if err != nil {
		return Thread{}, err
	}
	roots := make([]RootComment, 0, len(payload.Comments))
	for _, record := range payload.Comments {
		roots = append(roots, mapRootComment(record))
	}
	return Thread{PostID: payload.PostID, PostAuthorID: payload.PostAuthorID, Roots: roots}, nil
}

// CreateComment submits a new comment. An empty parentID denotes a root
// comment.
func (g HTTPGateway) CreateComment(ctx context.Context, userID string, postID string, content string, parentID string) error {
	if g.api == nil {
		return apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperrors.E(apperrors.KindNotFound, "post not found")
	}
	body := struct {
		Content         string `json:"content"`
		ParentCommentID string `json:"parentCommentId,omitempty"`
	}{Content: content, ParentCommentID: strings.TrimSpace(parentID)}
	return g.api.Do(ctx, apiclient.Request{
		Method:     http.MethodPost,
		Path:       "/v1/posts/" + url.PathEscape(postID) + "/comments",
		Body:       body,
		UserID:     userID,
		Idempotent: true,
	}, nil)
}

// DeleteComment soft-deletes a comment.
func (g HTTPGateway) DeleteComment(ctx context.Context, userID string, postID string, commentID string) error {
	if g.api == nil {
		return apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
	}
	postID = strings.TrimSpace(postID)
	commentID = strings.TrimSpace(commentID)
	if postID == "" || commentID == "" {
		return apperrors.E(apperrors.KindNotFound, "comment not found")
	}
	return g.api.Do(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/v1/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID),
		UserID: userID,
	}, nil)
}

func mapRootComment(record commentRecord) RootComment {
	root := RootComment{
		ID:        record.ID,
		Body:      record.Text,
		Author:    mapAuthor(record.Author),
		CreatedAt: record.CreatedAt,
		Deleted:   record.IsDeleted,
	}
	if len(record.Replies) == 0 {
		return root
	}
	root.Replies = make([]Reply, 0, len(record.Replies))
	for _, reply := range record.Replies {
		// Reply has no replies field, so any deeper nesting the payload
		// carries is unrepresentable here and silently dropped.
		root.Replies = append(root.Replies, Reply{
			ID:        reply.ID,
			Body:      reply.Text,
			Author:    mapAuthor(reply.Author),
			CreatedAt: reply.CreatedAt,
			Deleted:   reply.IsDeleted,
		})
	}
	return root
}

func mapAuthor(record *authorRecord) *Author {
	if record == nil {
		return nil
	}
	return &Author{ID: record.ID, Name: record.Name}
}
