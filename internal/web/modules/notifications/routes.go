package notifications

import (
	"net/http"

	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppNotifications, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.Notifications, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppInviteAcceptPattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppInviteAcceptPattern, h.handleAccept)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppInviteDeclinePattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppInviteDeclinePattern, h.handleDecline)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppNotificationRest, h.WriteNotFound)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppNotificationRest, h.WriteNotFound)
}
