package posts

import (
	"context"
	"sync"
)

// fakeGateway implements VoteGateway for tests. SubmitVote applies the toggle
// to the stored voter sets the way the platform would, so sequential toggles
// observe authoritative state between settlements.
type fakeGateway struct {
	mu        sync.Mutex
	snapshot  VoteSnapshot
	submitErr error
	submits   []string
}

var _ VoteGateway = (*fakeGateway)(nil)

func (f *fakeGateway) GetVoteSnapshot(context.Context, string) (VoteSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, nil
}

func (f *fakeGateway) SubmitVote(_ context.Context, userID string, _ string, direction string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, direction)
	if f.submitErr != nil {
		return f.submitErr
	}
	up := remove(f.snapshot.Upvoters, userID)
	down := remove(f.snapshot.Downvoters, userID)
	switch {
	case direction == DirectionUp && !contains(f.snapshot.Upvoters, userID):
		up = append(up, userID)
	case direction == DirectionDown && !contains(f.snapshot.Downvoters, userID):
		down = append(down, userID)
	}
	f.snapshot.Upvoters = up
	f.snapshot.Downvoters = down
	return nil
}

func (f *fakeGateway) submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submits...)
}

// blockingGateway holds each SubmitVote until the test releases it, so tests
// can interleave completions deterministically.
type blockingGateway struct {
	snapshot VoteSnapshot
	started  chan string
	release  chan error
}

var _ VoteGateway = (*blockingGateway)(nil)

func (g *blockingGateway) GetVoteSnapshot(context.Context, string) (VoteSnapshot, error) {
	return g.snapshot, nil
}

func (g *blockingGateway) SubmitVote(_ context.Context, _ string, _ string, direction string) error {
	g.started <- direction
	return <-g.release
}

func contains(identities []string, userID string) bool {
	for _, identity := range identities {
		if identity == userID {
			return true
		}
	}
	return false
}

func remove(identities []string, userID string) []string {
	kept := make([]string, 0, len(identities))
	for _, identity := range identities {
		if identity != userID {
			kept = append(kept, identity)
		}
	}
	return kept
}
