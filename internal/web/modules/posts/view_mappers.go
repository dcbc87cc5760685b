package posts

import "strings"

// VoteView is the transport-safe vote state for one post.
type VoteView struct {
	PostID    string `json:"post_id"`
	Count     int    `json:"count"`
	Upvoted   bool   `json:"upvoted"`
	Downvoted bool   `json:"downvoted"`
}

func voteView(postID string, state VoteState) VoteView {
	return VoteView{
		PostID:    strings.TrimSpace(postID),
		Count:     state.Count,
		Upvoted:   state.Upvoted,
		Downvoted: state.Downvoted,
	}
}
