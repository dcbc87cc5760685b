package posts

import (
	"net/http"

	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPostVotesPattern, h.handleVotes)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPostVotePattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppPostVotePattern, h.handleVote)
}
