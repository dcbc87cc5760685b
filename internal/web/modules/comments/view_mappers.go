package comments

import (
	"time"

	"github.com/buildboard/buildboard/internal/web/platform/i18n"
)

// AuthorView is the rendered author line for a comment.
type AuthorView struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ReplyView is the rendered second-level comment.
type ReplyView struct {
	ID        string     `json:"id"`
	Body      string     `json:"body"`
	Author    AuthorView `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	Deleted   bool       `json:"deleted"`
	Tombstone bool       `json:"tombstone"`
	CanDelete bool       `json:"can_delete"`
	// ReplyTarget is the compose target for replying to this comment: always
	// the root ancestor's id.
	ReplyTarget string `json:"reply_target"`
}

// RootCommentView is the rendered first-level comment with its replies.
type RootCommentView struct {
	ID          string      `json:"id"`
	Body        string      `json:"body"`
	Author      AuthorView  `json:"author"`
	CreatedAt   time.Time   `json:"created_at"`
	Deleted     bool        `json:"deleted"`
	Tombstone   bool        `json:"tombstone"`
	CanDelete   bool        `json:"can_delete"`
	ReplyTarget string      `json:"reply_target"`
	Replies     []ReplyView `json:"replies"`
}

// ThreadView is the rendered comment tree for one post.
type ThreadView struct {
	PostID   string            `json:"post_id"`
	Comments []RootCommentView `json:"comments"`
}

// threadView renders a thread for a specific viewer. Tombstoned comments
// (removed authors) keep their reply subtrees; delete affordances follow the
// per-comment author-or-post-author rule.
func threadView(thread Thread, viewerID string, loc i18n.Localizer) ThreadView {
	view := ThreadView{PostID: thread.PostID, Comments: make([]RootCommentView, 0, len(thread.Roots))}
	for _, root := range thread.Roots {
		rootView := RootCommentView{
			ID:          root.ID,
			Body:        root.Body,
			Author:      authorView(root.Author, loc),
			CreatedAt:   root.CreatedAt,
			Deleted:     root.Deleted,
			Tombstone:   root.Author == nil,
			CanDelete:   CanDelete(root.Author, thread.PostAuthorID, viewerID),
			ReplyTarget: root.ID,
			Replies:     make([]ReplyView, 0, len(root.Replies)),
		}
		for _, reply := range root.Replies {
			rootView.Replies = append(rootView.Replies, ReplyView{
				ID:          reply.ID,
				Body:        reply.Body,
				Author:      authorView(reply.Author, loc),
				CreatedAt:   reply.CreatedAt,
				Deleted:     reply.Deleted,
				Tombstone:   reply.Author == nil,
				CanDelete:   CanDelete(reply.Author, thread.PostAuthorID, viewerID),
				ReplyTarget: root.ID,
			})
		}
		view.Comments = append(view.Comments, rootView)
	}
	return view
}

func authorView(author *Author, loc i18n.Localizer) AuthorView {
	if author == nil {
		return AuthorView{Name: i18n.T(loc, "web.comment.deleted_author")}
	}
	return AuthorView{ID: author.ID, Name: author.Name}
}
