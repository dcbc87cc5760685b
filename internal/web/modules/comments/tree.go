package comments

import (
	"strings"
	"time"
)

// Author identifies a comment author. A nil author means the account was
// removed; the comment renders as a tombstone but keeps its replies.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reply is a second-level comment. It carries no replies field, so a third
// nesting level cannot be represented at all.
type Reply struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    *Author   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Deleted   bool      `json:"deleted"`
}

// RootComment is a first-level comment owning its direct replies.
type RootComment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    *Author   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Deleted   bool      `json:"deleted"`
	Replies   []Reply   `json:"replies"`
}

// Thread is a post's full comment tree plus the post authorship needed for
// moderation permission checks.
type Thread struct {
	PostID       string        `json:"post_id"`
	PostAuthorID string        `json:"post_author_id"`
	Roots        []RootComment `json:"roots"`
}

// ComposeTarget resolves the parent-linkage target for a new reply to
// commentID. Replies always attach to the root ancestor: replying to a root
// targets that root, replying to a reply targets the reply's root, so the
// two-level shape is enforced structurally rather than by truncation. Returns
// false when commentID is not in the thread.
func ComposeTarget(roots []RootComment, commentID string) (string, bool) {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return "", false
	}
	for _, root := range roots {
		if root.ID == commentID {
			return root.ID, true
		}
		for _, reply := range root.Replies {
			if reply.ID == commentID {
				return root.ID, true
			}
		}
	}
	return "", false
}

// CanDelete reports whether the viewer may delete a comment: the viewer is
// the comment's author, or the viewer authored the post (moderation right).
// Evaluated per comment, independent of thread position.
func CanDelete(author *Author, postAuthorID string, viewerID string) bool {
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		return false
	}
	if author != nil && author.ID == viewerID {
		return true
	}
	return strings.TrimSpace(postAuthorID) == viewerID
}

// findAuthor returns the author of the comment with commentID and whether
// the comment exists anywhere in the thread.
func findAuthor(roots []RootComment, commentID string) (*Author, bool) {
	for _, root := range roots {
		if root.ID == commentID {
			return root.Author, true
		}
		for _, reply := range root.Replies {
			if reply.ID == commentID {
				return reply.Author, true
			}
		}
	}
	return nil, false
}
