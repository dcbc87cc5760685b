package posts

import (
	"context"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) GetVoteSnapshot(context.Context, string) (VoteSnapshot, error) {
	return VoteSnapshot{}, apperrors.E(apperrors.KindUnavailable, "posts service is not configured")
}

func (unavailableGateway) SubmitVote(context.Context, string, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, "posts service is not configured")
}
