package notifications

import "context"

// fakeGateway implements NotificationGateway for tests with configurable
// return values, error injection, and recorded mutation arguments.
type fakeGateway struct {
	notifications []Notification
	listErr       error
	invitations   []Invitation
	invitesErr    error
	acceptErr     error
	declineErr    error
	markReadErr   error

	accepted []string
	declined []string
	marked   []string
}

var _ NotificationGateway = (*fakeGateway)(nil)

func (f *fakeGateway) ListNotifications(context.Context, string) ([]Notification, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.notifications, nil
}

func (f *fakeGateway) MarkNotificationRead(_ context.Context, _ string, notificationID string) error {
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.marked = append(f.marked, notificationID)
	return nil
}

func (f *fakeGateway) ListInvitations(context.Context, string) ([]Invitation, error) {
	if f.invitesErr != nil {
		return nil, f.invitesErr
	}
	return f.invitations, nil
}

func (f *fakeGateway) AcceptInvitation(_ context.Context, _ string, token string) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	f.accepted = append(f.accepted, token)
	return nil
}

func (f *fakeGateway) DeclineInvitation(_ context.Context, _ string, token string) error {
	if f.declineErr != nil {
		return f.declineErr
	}
	f.declined = append(f.declined, token)
	return nil
}
