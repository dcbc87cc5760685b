// Package metrics exposes Prometheus counters for mutation outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VoteMutations counts vote toggle requests by settlement result.
	VoteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buildboard_web_vote_mutations_total",
		Help: "Vote toggle mutations issued to the platform API, by result.",
	}, []string{"result"})

	// VoteRollbacks counts optimistic vote states restored to their pinned
	// pre-batch snapshot after a failed confirmation.
	VoteRollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buildboard_web_vote_rollbacks_total",
		Help: "Optimistic vote states rolled back to the pinned snapshot.",
	})

	// VoteBatchJoins counts toggles applied while a confirmation for the same
	// post was already outstanding.
	VoteBatchJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buildboard_web_vote_batch_joins_total",
		Help: "Vote toggles that joined an already-outstanding mutation batch.",
	})

	// CommentMutations counts comment create/delete requests by result.
	CommentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buildboard_web_comment_mutations_total",
		Help: "Comment mutations issued to the platform API, by action and result.",
	}, []string{"action", "result"})

	// InviteActions counts invitation accept/decline requests by result.
	InviteActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buildboard_web_invite_actions_total",
		Help: "Invitation actions issued to the platform API, by action and result.",
	}, []string{"action", "result"})

	// GateConflicts counts mutations refused because a confirmation for the
	// same target was still outstanding.
	GateConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buildboard_web_gate_conflicts_total",
		Help: "Mutations refused while a prior confirmation was outstanding.",
	}, []string{"kind"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
