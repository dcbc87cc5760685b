// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root    = "/"
	Health  = "/healthz"
	Metrics = "/metrics"

	AppPrefix = "/app/"

	AppPosts                = "/app/posts"
	PostsPrefix             = "/app/posts/"
	AppPostVotePattern      = PostsPrefix + "{postID}/vote"
	AppPostVotesPattern     = PostsPrefix + "{postID}/votes"
	AppPostCommentsPattern  = PostsPrefix + "{postID}/comments"
	AppPostCommentPattern   = PostsPrefix + "{postID}/comments/{commentID}"
	AppPostRestPattern      = PostsPrefix + "{postID}/{rest...}"
	AppNotifications        = "/app/notifications"
	Notifications           = "/app/notifications/"
	AppNotificationPattern  = Notifications + "{notificationID}"
	AppInviteAcceptPattern  = Notifications + "{notificationID}/invitation/accept"
	AppInviteDeclinePattern = Notifications + "{notificationID}/invitation/decline"
	AppNotificationRest     = Notifications + "{notificationID}/{rest...}"
)

// PostVote returns the vote mutation path for a post.
func PostVote(postID string) string {
	return PostsPrefix + url.PathEscape(strings.TrimSpace(postID)) + "/vote"
}

// PostVotes returns the vote read path for a post.
func PostVotes(postID string) string {
	return PostsPrefix + url.PathEscape(strings.TrimSpace(postID)) + "/votes"
}

// PostComments returns the comments path for a post.
func PostComments(postID string) string {
	return PostsPrefix + url.PathEscape(strings.TrimSpace(postID)) + "/comments"
}

// PostComment returns the path for a single comment on a post.
func PostComment(postID string, commentID string) string {
	return PostComments(postID) + "/" + url.PathEscape(strings.TrimSpace(commentID))
}

// Notification returns the detail path for a notification.
func Notification(notificationID string) string {
	return Notifications + url.PathEscape(strings.TrimSpace(notificationID))
}
