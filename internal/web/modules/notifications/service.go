package notifications

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	apperrors "github.com/buildboard/buildboard/internal/web/platform/errors"
	"github.com/buildboard/buildboard/internal/web/platform/inflight"
	"github.com/buildboard/buildboard/internal/web/platform/metrics"
	"github.com/buildboard/buildboard/internal/web/storage"
)

// Invitation dispositions resolved for a notification.
const (
	// DispositionNone: the notification carries no invitation token.
	DispositionNone = "none"
	// DispositionActionable: the token is live, accept/decline controls render.
	DispositionActionable = "actionable"
	// DispositionAccepted / DispositionDeclined: the viewer resolved the
	// invitation from this notification during this service lifetime.
	DispositionAccepted = "accepted"
	DispositionDeclined = "declined"
	// DispositionInactive: the token is no longer in the authoritative list
	// and no local terminal action explains why.
	DispositionInactive = "inactive"
)

// Invitation actions accepted by the action operation.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

const invitationGateKind = "invitation"

const notificationCacheTTL = 15 * time.Second

// Notification is one notification record. Metadata.Token, when present,
// cross-references an invitation; the record itself is never mutated locally.
type Notification struct {
	ID          string    `json:"id"`
	MessageType string    `json:"message_type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	Metadata    Metadata  `json:"metadata"`
}

// Metadata carries the optional invitation cross-reference.
type Metadata struct {
	Token string `json:"token,omitempty"`
}

// Invitation is one entry of the viewer's authoritative pending-invitations
// list. Presence in the list is what makes a token live; there is no status
// field.
type Invitation struct {
	Token   string    `json:"token"`
	Project string    `json:"project"`
	Sender  string    `json:"sender"`
	SentAt  time.Time `json:"sent_at"`
}

// NotificationGateway loads notification and invitation read models and
// submits invitation mutations.
type NotificationGateway interface {
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID string) error
	ListInvitations(ctx context.Context, userID string) ([]Invitation, error)
	AcceptInvitation(ctx context.Context, userID string, token string) error
	DeclineInvitation(ctx context.Context, userID string, token string) error
}

// ResolveDisposition decides what an invitation-bearing notification should
// render. A locally recorded terminal action wins over liveness, so the
// control is replaced immediately after the viewer acts, before the
// invitation list refreshes. The authoritative list, not any flag on the
// notification, decides liveness for everything else.
func ResolveDisposition(token string, invitations []Invitation, terminalAction string) string {
	switch terminalAction {
	case ActionAccept:
		return DispositionAccepted
	case ActionDecline:
		return DispositionDeclined
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return DispositionNone
	}
	for _, invitation := range invitations {
		if invitation.Token == token {
			return DispositionActionable
		}
	}
	return DispositionInactive
}

type actionKey struct {
	userID         string
	notificationID string
}

type service struct {
	gateway NotificationGateway
	gate    *inflight.Gate
	store   storage.Store

	mu sync.Mutex
	// terminal actions keyed by notification identity, not token: one token
	// could surface through more than one notification. Ephemeral by design.
	actions map[actionKey]string
}

func newService(gateway NotificationGateway, gate *inflight.Gate, store storage.Store) *service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return &service{
		gateway: gateway,
		gate:    gate,
		store:   store,
		actions: make(map[actionKey]string),
	}
}

// requireUserID validates and returns a trimmed user ID, or returns an
// unauthorized error if it is blank.
func requireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.EK(apperrors.KindUnauthorized, "error.web.message.unauthorized", "user id is required")
	}
	return userID, nil
}

// Resolved pairs a notification with its invitation disposition.
type Resolved struct {
	Notification Notification
	Disposition  string
	Invitation   *Invitation
}

// listNotifications loads the viewer's notifications and resolves every
// invitation cross-reference against the authoritative pending list.
func (s *service) listNotifications(ctx context.Context, userID string) ([]Resolved, error) {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}

	items, err := storage.ReadThrough(ctx, s.store, storage.ScopeNotifications, resolvedUserID, resolvedUserID, notificationCacheTTL, func(ctx context.Context) ([]Notification, error) {
		return s.gateway.ListNotifications(ctx, resolvedUserID)
	})
	if err != nil {
		return nil, err
	}
	invitations, err := s.invitations(ctx, resolvedUserID)
	if err != nil {
		return nil, err
	}

	resolved := make([]Resolved, 0, len(items))
	for _, item := range items {
		entry := Resolved{
			Notification: item,
			Disposition:  ResolveDisposition(item.Metadata.Token, invitations, s.terminalAction(resolvedUserID, item.ID)),
		}
		if invitation, ok := findInvitation(invitations, item.Metadata.Token); ok {
			entry.Invitation = &invitation
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// invitationAction accepts or declines the invitation referenced by a
// notification. Success records the terminal action for that notification and
// marks it read; failure records nothing so the control stays actionable.
func (s *service) invitationAction(ctx context.Context, userID string, notificationID string, action string) (Resolved, error) {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return Resolved{}, err
	}
	resolvedNotificationID := strings.TrimSpace(notificationID)
	if resolvedNotificationID == "" {
		return Resolved{}, apperrors.E(apperrors.KindNotFound, "notification not found")
	}
	if action != ActionAccept && action != ActionDecline {
		return Resolved{}, apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_input", "invitation action must be accept or decline")
	}

	notification, err := s.findNotification(ctx, resolvedUserID, resolvedNotificationID)
	if err != nil {
		return Resolved{}, err
	}
	token := strings.TrimSpace(notification.Metadata.Token)
	if token == "" {
		return Resolved{}, apperrors.E(apperrors.KindNotFound, "notification carries no invitation")
	}

	gateKey := inflight.NewKey(invitationGateKind, token)
	if !s.gate.TryAcquire(gateKey, nil) {
		metrics.GateConflicts.WithLabelValues(invitationGateKind).Inc()
		return Resolved{}, apperrors.EK(apperrors.KindConflict, "web.invite.pending", "this invitation is already being updated")
	}
	defer s.gate.Settle(gateKey)

	submit := s.gateway.AcceptInvitation
	if action == ActionDecline {
		submit = s.gateway.DeclineInvitation
	}
	if err := submit(ctx, resolvedUserID, token); err != nil {
		metrics.InviteActions.WithLabelValues(action, metrics.ResultError).Inc()
		return Resolved{}, apperrors.EK(apperrors.KindOf(err), "web.invite.action_failed", err.Error())
	}

	s.mu.Lock()
	s.actions[actionKey{userID: resolvedUserID, notificationID: resolvedNotificationID}] = action
	s.mu.Unlock()

	// Mark-read is a best-effort side request; the action already succeeded.
	if err := s.gateway.MarkNotificationRead(ctx, resolvedUserID, resolvedNotificationID); err != nil {
		log.Printf("mark notification read failed user=%s notification=%s: %v", resolvedUserID, resolvedNotificationID, err)
	}
	storage.Invalidate(ctx, s.store, storage.ScopeInvitations, resolvedUserID)
	storage.Invalidate(ctx, s.store, storage.ScopeNotifications, resolvedUserID)
	metrics.InviteActions.WithLabelValues(action, metrics.ResultOK).Inc()

	disposition := DispositionAccepted
	if action == ActionDecline {
		disposition = DispositionDeclined
	}
	notification.Read = true
	return Resolved{Notification: notification, Disposition: disposition}, nil
}

func (s *service) invitations(ctx context.Context, userID string) ([]Invitation, error) {
	return storage.ReadThrough(ctx, s.store, storage.ScopeInvitations, userID, userID, notificationCacheTTL, func(ctx context.Context) ([]Invitation, error) {
		return s.gateway.ListInvitations(ctx, userID)
	})
}

func (s *service) findNotification(ctx context.Context, userID string, notificationID string) (Notification, error) {
	items, err := storage.ReadThrough(ctx, s.store, storage.ScopeNotifications, userID, userID, notificationCacheTTL, func(ctx context.Context) ([]Notification, error) {
		return s.gateway.ListNotifications(ctx, userID)
	})
	if err != nil {
		return Notification{}, err
	}
	for _, item := range items {
		if item.ID == notificationID {
			return item, nil
		}
	}
	return Notification{}, apperrors.E(apperrors.KindNotFound, "notification not found")
}

func (s *service) terminalAction(userID string, notificationID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions[actionKey{userID: userID, notificationID: notificationID}]
}

func findInvitation(invitations []Invitation, token string) (Invitation, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Invitation{}, false
	}
	for _, invitation := range invitations {
		if invitation.Token == token {
			return invitation, true
		}
	}
	return Invitation{}, false
}
