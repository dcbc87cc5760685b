package notifications

import (
	"context"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) ListNotifications(context.Context, string) ([]Notification, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
}

func (unavailableGateway) MarkNotificationRead(context.Context, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
}

func (unavailableGateway) ListInvitations(context.Context, string) ([]Invitation, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
}

func (unavailableGateway) AcceptInvitation(context.Context, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
}

func (unavailableGateway) DeclineInvitation(context.Context, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "notifications service is not configured")
}
