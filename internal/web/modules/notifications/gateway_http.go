package notifications

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buildboard/buildboard/internal/web/platform/apiclient"
	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

// HTTPGateway adapts the platform API to the NotificationGateway contract.
type HTTPGateway struct {
	api apiclient.Doer
}

// NewHTTPGateway wraps a platform API client as a notification gateway.
func NewHTTPGateway(api apiclient.Doer) HTTPGateway {
	return HTTPGateway{api: api}
}

var _ NotificationGateway = HTTPGateway{}

type notificationRecord struct {
	ID          string    `json:"id"`
	MessageType string    `json:"message_type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	Metadata    struct {
		Token string `json:"token"`
	} `json:"metadata"`
}

// ListNotifications loads the viewer's notifications.
func (g HTTPGateway) ListNotifications(ctx context.Context, userID string) ([]Notification, error) {
	if g.api == nil {
		return nil, apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
	}
	var payload struct {
		Notifications []notificationRecord `json:"notifications"`
	}
	err := g.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/notifications",
		UserID: userID,
	}, &payload)
	if err != nil {
		return nil, err
	}
	items := make([]Notification, 0, len(payload.Notifications))
	for _, record := range payload.Notifications {
		items = append(items, Notification{
			ID:          record.ID,
			MessageType: record.MessageType,
			Read:        record.Read,
			CreatedAt:   record.CreatedAt,
			Metadata:    Metadata{Token: strings.TrimSpace(record.Metadata.Token)},
		})
	}
	return items, nil
}

// MarkNotificationRead marks one notification read.
func (g HTTPGateway) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	if g.api == nil {
		return apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
	}
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return apperrors.E(apperrors.KindNotFound, "notification not found")
	}
	return g.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/notifications/" + url.PathEscape(notificationID) + "/read",
		UserID: userID,
	}, nil)
}

// ListInvitations loads the viewer's authoritative pending invitations.
func (g HTTPGateway) ListInvitations(ctx context.Context, userID string) ([]Invitation, error) {
	if g.api == nil {
		return nil, apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
	}
	var payload struct {
		Invitations []struct {
			Token   string    `json:"token"`
			Project string    `json:"project"`
			Sender  string    `json:"sender"`
			SentAt  time.Time `json:"sentAt"`
		} `json:"invitations"`
	}
	err := g.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/invitations",
		UserID: userID,
	}, &payload)
	if err != nil {
		return nil, err
	}
	items := make([]Invitation, 0, len(payload.Invitations))
	for _, record := range payload.Invitations {
		items = append(items, Invitation{
			Token:   strings.TrimSpace(record.Token),
			Project: record.Project,
			Sender:  record.Sender,
			SentAt:  record.SentAt,
		})
	}
	return items, nil
}

// AcceptInvitation accepts the invitation identified by token.
func (g HTTPGateway) AcceptInvitation(ctx context.Context, userID string, token string) error {
	return g.invitationAction(ctx, userID, token, "accept")
}

// DeclineInvitation declines the invitation identified by token.
func (g HTTPGateway) DeclineInvitation(ctx context.Context, userID string, token string) error {
	return g.invitationAction(ctx, userID, token, "decline")
}

func (g HTTPGateway) invitationAction(ctx context.Context, userID string, token string, action string) error {
	if g.api == nil {
		return apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.E(apperrors.KindNotFound, "invitation not found")
	}
	return g.api.Do(ctx, apiclient.Request{
		Method:     http.MethodPost,
		Path:       "/v1/invitations/" + url.PathEscape(token) + "/" + action,
		UserID:     userID,
		Idempotent: true,
	}, nil)
}
