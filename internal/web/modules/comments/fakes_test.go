package comments

import "context"

// fakeGateway implements CommentGateway for tests with configurable return
// values, error injection, and recorded mutation arguments.
type fakeGateway struct {
	thread    Thread
	threadErr error
	createErr error
	deleteErr error

	createdParentIDs []string
	createdContents  []string
	deletedIDs       []string
}

var _ CommentGateway = (*fakeGateway)(nil)

func (f *fakeGateway) GetThread(context.Context, string) (Thread, error) {
	if f.threadErr != nil {
		return Thread{}, f.threadErr
	}
	return f.thread, nil
}

func (f *fakeGateway) CreateComment(_ context.Context, _ string, _ string, content string, parentID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdContents = append(f.createdContents, content)
	f.createdParentIDs = append(f.createdParentIDs, parentID)
	return nil
}

func (f *fakeGateway) DeleteComment(_ context.Context, _ string, _ string, commentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, commentID)
	return nil
}
