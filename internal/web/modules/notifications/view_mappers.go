package notifications

import (
	"time"

	"github.com/buildboard/buildboard/internal/web/platform/i18n"
)

// InvitationView is the rendered invitation block of a notification.
type InvitationView struct {
	Project string    `json:"project,omitempty"`
	Sender  string    `json:"sender,omitempty"`
	SentAt  time.Time `json:"sent_at,omitempty"`
	// Disposition is one of the resolver dispositions; Actionable mirrors it
	// so a renderer can branch without re-deriving.
	Disposition string `json:"disposition"`
	Actionable  bool   `json:"actionable"`
	// StatusLine is the localized terminal or inactive status; empty while
	// the invitation is actionable.
	StatusLine string `json:"status_line,omitempty"`
}

// NotificationView is the transport-safe notification with its resolved
// invitation state.
type NotificationView struct {
	ID          string          `json:"id"`
	MessageType string          `json:"message_type"`
	Read        bool            `json:"read"`
	CreatedAt   time.Time       `json:"created_at"`
	Invitation  *InvitationView `json:"invitation,omitempty"`
}

// NotificationListView is the rendered notification list.
type NotificationListView struct {
	Notifications []NotificationView `json:"notifications"`
}

func notificationListView(items []Resolved, loc i18n.Localizer) NotificationListView {
	view := NotificationListView{Notifications: make([]NotificationView, 0, len(items))}
	for _, item := range items {
		view.Notifications = append(view.Notifications, notificationView(item, loc))
	}
	return view
}

func notificationView(item Resolved, loc i18n.Localizer) NotificationView {
	view := NotificationView{
		ID:          item.Notification.ID,
		MessageType: item.Notification.MessageType,
		Read:        item.Notification.Read,
		CreatedAt:   item.Notification.CreatedAt,
	}
	if item.Disposition == DispositionNone {
		return view
	}
	invitation := &InvitationView{
		Disposition: item.Disposition,
		Actionable:  item.Disposition == DispositionActionable,
		StatusLine:  statusLine(item.Disposition, loc),
	}
	if item.Invitation != nil {
		invitation.Project = item.Invitation.Project
		invitation.Sender = item.Invitation.Sender
		invitation.SentAt = item.Invitation.SentAt
	}
	view.Invitation = invitation
	return view
}

func statusLine(disposition string, loc i18n.Localizer) string {
	switch disposition {
	case DispositionAccepted:
		return i18n.T(loc, "web.invite.accepted")
	case DispositionDeclined:
		return i18n.T(loc, "web.invite.declined")
	case DispositionInactive:
		return i18n.T(loc, "web.invite.inactive")
	}
	return ""
}
