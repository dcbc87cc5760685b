package notifications

import (
	"context"
	"net/http"
	"strings"

	"github.com/buildboard/buildboard/internal/web/platform/httpx"
	"github.com/buildboard/buildboard/internal/web/platform/modulehandler"
)

// notificationService defines the service operations used by notification
// handlers.
type notificationService interface {
	listNotifications(ctx context.Context, userID string) ([]Resolved, error)
	invitationAction(ctx context.Context, userID string, notificationID string, action string) (Resolved, error)
}

type handlers struct {
	modulehandler.Base
	service notificationService
}

func newHandlers(s *service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, userID := h.RequestContextAndUserID(r)
	items, err := h.service.listNotifications(ctx, userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, notificationListView(items, h.Localizer(r)))
}

func (h handlers) handleAccept(w http.ResponseWriter, r *http.Request) {
	h.handleInvitationAction(w, r, ActionAccept)
}

func (h handlers) handleDecline(w http.ResponseWriter, r *http.Request) {
	h.handleInvitationAction(w, r, ActionDecline)
}

func (h handlers) handleInvitationAction(w http.ResponseWriter, r *http.Request, action string) {
	notificationID := strings.TrimSpace(r.PathValue("notificationID"))
	if notificationID == "" {
		h.WriteNotFound(w, r)
		return
	}
	ctx, userID := h.RequestContextAndUserID(r)
	resolved, err := h.service.invitationAction(ctx, userID, notificationID, action)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, notificationView(resolved, h.Localizer(r)))
}
