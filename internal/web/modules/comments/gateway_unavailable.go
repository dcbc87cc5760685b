package comments

import (
	"context"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) GetThread(context.Context, string) (Thread, error) {
	return Thread{}, apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
}

func (unavailableGateway) CreateComment(context.Context, string, string, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
}

func (unavailableGateway) DeleteComment(context.Context, string, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "comments service is not configured")
}
