package comments

import "testing"

func testThreadRoots() []RootComment {
	return []RootComment{
		{
			ID:     "root-1",
			Body:   "first",
			Author: &Author{ID: "user-2", Name: "Blair"},
			Replies: []Reply{
				{ID: "reply-1", Body: "nested", Author: &Author{ID: "user-3", Name: "Casey"}},
				{ID: "reply-2", Body: "also nested", Author: &Author{ID: "user-4", Name: "Drew"}},
			},
		},
		{ID: "root-2", Body: "second", Author: &Author{ID: "user-5", Name: "Emery"}},
	}
}

func TestComposeTargetForRootIsItself(t *testing.T) {
	t.Parallel()

	target, ok := ComposeTarget(testThreadRoots(), "root-1")
	if !ok {
		t.Fatal("expected root-1 to be found")
	}
	if target != "root-1" {
		t.Fatalf("ComposeTarget() = %q, want %q", target, "root-1")
	}
}

func TestComposeTargetForReplyIsRootAncestor(t *testing.T) {
	t.Parallel()

	target, ok := ComposeTarget(testThreadRoots(), "reply-2")
	if !ok {
		t.Fatal("expected reply-2 to be found")
	}
	if target != "root-1" {
		t.Fatalf("ComposeTarget() = %q, want root ancestor %q", target, "root-1")
	}
}

func TestComposeTargetUnknownComment(t *testing.T) {
	t.Parallel()

	if _, ok := ComposeTarget(testThreadRoots(), "missing"); ok {
		t.Fatal("expected unknown comment to not resolve")
	}
	if _, ok := ComposeTarget(testThreadRoots(), "  "); ok {
		t.Fatal("expected blank comment id to not resolve")
	}
}

func TestCanDeletePerComment(t *testing.T) {
	t.Parallel()

	author := &Author{ID: "user-2", Name: "Blair"}

	if !CanDelete(author, "user-1", "user-2") {
		t.Fatal("expected comment author to be allowed")
	}
	if !CanDelete(author, "user-1", "user-1") {
		t.Fatal("expected post author to be allowed")
	}
	if CanDelete(author, "user-1", "user-3") {
		t.Fatal("expected unrelated viewer to be denied")
	}
	if CanDelete(nil, "user-1", "user-3") {
		t.Fatal("expected unrelated viewer to be denied for tombstoned comment")
	}
	if !CanDelete(nil, "user-1", "user-1") {
		t.Fatal("expected post author to be allowed for tombstoned comment")
	}
	if CanDelete(author, "user-1", "") {
		t.Fatal("expected anonymous viewer to be denied")
	}
}
