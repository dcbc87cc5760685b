package posts

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/metrics"
	"github.com/buildboard/buildboard/internal/web/storage"
)

// Vote directions accepted by the toggle operation.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

const voteGateKind = "post.vote"

const voteCacheTTL = 30 * time.Second

// VoteSnapshot is the vote-relevant slice of a post as the platform reports
// it: the sets of voter identities. Order is irrelevant for vote computation.
type VoteSnapshot struct {
	PostID     string   `json:"post_id"`
	Upvoters   []string `json:"upvoters"`
	Downvoters []string `json:"downvoters"`
}

// VoteState is the viewer-facing vote display state for one post.
type VoteState struct {
	Count     int  `json:"count"`
	Upvoted   bool `json:"upvoted"`
	Downvoted bool `json:"downvoted"`
}

// VoteGateway loads vote snapshots and submits vote mutations.
type VoteGateway interface {
	GetVoteSnapshot(ctx context.Context, postID string) (VoteSnapshot, error)
	SubmitVote(ctx context.Context, userID string, postID string, direction string) error
}

// DeriveVoteState computes the displayed vote state from an authoritative
// snapshot: tally is |upvoters| - |downvoters|, flags reflect viewer
// membership.
func DeriveVoteState(snapshot VoteSnapshot, userID string) VoteState {
	return VoteState{
		Count:     len(snapshot.Upvoters) - len(snapshot.Downvoters),
		Upvoted:   containsIdentity(snapshot.Upvoters, userID),
		Downvoted: containsIdentity(snapshot.Downvoters, userID),
	}
}

// applyToggle computes the next display state for a toggle request. Requests
// are toggles, not set/unset: repeating the current direction undoes it, the
// opposite direction flips the contribution in one step.
func applyToggle(state VoteState, direction string) VoteState {
	switch direction {
	case DirectionUp:
		switch {
		case state.Upvoted:
			return VoteState{Count: state.Count - 1}
		case state.Downvoted:
			return VoteState{Count: state.Count + 2, Upvoted: true}
		default:
			return VoteState{Count: state.Count + 1, Upvoted: true}
		}
	case DirectionDown:
		switch {
		case state.Downvoted:
			return VoteState{Count: state.Count + 1}
		case state.Upvoted:
			return VoteState{Count: state.Count - 2, Downvoted: true}
		default:
			return VoteState{Count: state.Count - 1, Downvoted: true}
		}
	}
	return state
}

type voteKey struct {
	userID string
	postID string
}

type service struct {
	gateway VoteGateway
	gate    *inflight.Gate
	store   storage.Store

	mu         sync.Mutex
	optimistic map[voteKey]VoteState
}

func newService(gateway VoteGateway, gate *inflight.Gate, store storage.Store) *service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return &service{
		gateway:    gateway,
		gate:       gate,
		store:      store,
		optimistic: make(map[voteKey]VoteState),
	}
}

// requireViewer validates and returns a trimmed user ID, or returns an
// unauthorized error prompting sign-in.
func requireViewer(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.EK(apperrors.KindUnauthorized, "web.vote.sign_in_required", "sign in to vote")
	}
	return userID, nil
}

// voteState returns the displayed vote state for the viewer: the optimistic
// state while mutations are unsettled, otherwise the state derived from the
// cached authoritative snapshot.
func (s *service) voteState(ctx context.Context, userID string, postID string) (VoteState, error) {
	resolvedUserID, err := requireViewer(userID)
	if err != nil {
		return VoteState{}, err
	}
	resolvedPostID := strings.TrimSpace(postID)
	if resolvedPostID == "" {
		return VoteState{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}

	key := voteKey{userID: resolvedUserID, postID: resolvedPostID}
	gateKey := inflight.NewKey(voteGateKind, resolvedUserID+"/"+resolvedPostID)
	s.mu.Lock()
	local, pending := s.optimistic[key]
	if pending && !s.gate.Outstanding(gateKey) {
		// Rollback remnant: serve the restored state once, then let the
		// authoritative snapshot win again.
		delete(s.optimistic, key)
	}
	s.mu.Unlock()
	if pending {
		return local, nil
	}

	snapshot, err := s.fetchSnapshot(ctx, resolvedPostID)
	if err != nil {
		return VoteState{}, err
	}
	return DeriveVoteState(snapshot, resolvedUserID), nil
}

// toggleVote applies the optimistic toggle synchronously, then issues the
// authoritative mutation. On failure the display state is restored to the
// snapshot pinned at the start of the outstanding batch, never to an
// intermediate optimistic value.
func (s *service) toggleVote(ctx context.Context, userID string, postID string, direction string) (VoteState, error) {
	resolvedUserID, err := requireViewer(userID)
	if err != nil {
		return VoteState{}, err
	}
	resolvedPostID := strings.TrimSpace(postID)
	if resolvedPostID == "" {
		return VoteState{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	direction = strings.TrimSpace(strings.ToLower(direction))
	if direction != DirectionUp && direction != DirectionDown {
		return VoteState{}, apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_input", "vote direction must be up or down")
	}

	key := voteKey{userID: resolvedUserID, postID: resolvedPostID}
	gateKey := inflight.NewKey(voteGateKind, resolvedUserID+"/"+resolvedPostID)

	// The pre-action state must come from the same view the toggle applies
	// to. When nothing is outstanding that is the authoritative snapshot, so
	// fetch it before taking the lock.
	s.mu.Lock()
	current, pending := s.optimistic[key]
	s.mu.Unlock()
	if !pending {
		snapshot, err := s.fetchSnapshot(ctx, resolvedPostID)
		if err != nil {
			return VoteState{}, err
		}
		current = DeriveVoteState(snapshot, resolvedUserID)
	}

	// Capture, apply, and pin atomically so an interleaved toggle cannot pin
	// an intermediate optimistic value as the rollback target.
	s.mu.Lock()
	if latest, ok := s.optimistic[key]; ok {
		current = latest
	}
	next := applyToggle(current, direction)
	s.optimistic[key] = next
	_, opened := s.gate.Begin(gateKey, current)
	s.mu.Unlock()
	if !opened {
		metrics.VoteBatchJoins.Inc()
	}

	if err := s.gateway.SubmitVote(ctx, resolvedUserID, resolvedPostID, direction); err != nil {
		s.rollback(key, gateKey)
		metrics.VoteMutations.WithLabelValues(metrics.ResultError).Inc()
		return VoteState{}, apperrors.EK(apperrors.KindOf(err), "web.vote.failed", err.Error())
	}

	s.settle(key, gateKey)
	storage.Invalidate(ctx, s.store, storage.ScopePostVotes, resolvedPostID)
	metrics.VoteMutations.WithLabelValues(metrics.ResultOK).Inc()
	return next, nil
}

// settle records one confirmed mutation. Once the batch closes the optimistic
// entry is discarded so the next read is authoritative.
func (s *service) settle(key voteKey, gateKey inflight.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Settle(gateKey)
	if !s.gate.Outstanding(gateKey) {
		delete(s.optimistic, key)
	}
}

// rollback restores the display state to the batch's pinned snapshot. A
// straggler from a batch that already failed finds the batch closed and
// leaves the restored state alone.
func (s *service) rollback(key voteKey, gateKey inflight.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pinned, ok := s.gate.Fail(gateKey)
	if !ok {
		return
	}
	state, _ := pinned.(VoteState)
	s.optimistic[key] = state
	metrics.VoteRollbacks.Inc()
}

func (s *service) fetchSnapshot(ctx context.Context, postID string) (VoteSnapshot, error) {
	return storage.ReadThrough(ctx, s.store, storage.ScopePostVotes, postID, "", voteCacheTTL, func(ctx context.Context) (VoteSnapshot, error) {
		return s.gateway.GetVoteSnapshot(ctx, postID)
	})
}

func containsIdentity(identities []string, userID string) bool {
	for _, identity := range identities {
		if identity == userID {
			return true
		}
	}
	return false
}
