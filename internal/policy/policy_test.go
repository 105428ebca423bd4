package policy

import (
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func activeUser() *models.User {
	return &models.User{ID: uuid.New(), IsActive: true}
}

// TestCanCreate verifies that creation requires an authenticated, active
// account and nothing more.
func TestCanCreate(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{name: "anonymous", actor: nil, want: false},
		{name: "active account", actor: activeUser(), want: true},
		{name: "deactivated account", actor: &models.User{ID: uuid.New(), IsActive: false}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreate(tt.actor); got != tt.want {
				t.Errorf("CanCreate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCanMutateAndDelete verifies the author-only rule for post mutation
// and soft deletion.
func TestCanMutateAndDelete(t *testing.T) {
	author := activeUser()
	other := activeUser()
	staff := activeUser()
	staff.IsStaff = true
	post := &models.Post{ID: uuid.New(), AuthorID: author.ID}

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{name: "author", actor: author, want: true},
		{name: "other user", actor: other, want: false},
		{name: "staff is not exempt", actor: staff, want: false},
		{name: "anonymous", actor: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.actor, post); got != tt.want {
				t.Errorf("CanMutate() = %v, want %v", got, tt.want)
			}
			if got := CanDelete(tt.actor, post); got != tt.want {
				t.Errorf("CanDelete() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCanMutate_DeactivatedAuthor verifies that a deactivated author loses
// write access to their own posts.
func TestCanMutate_DeactivatedAuthor(t *testing.T) {
	author := activeUser()
	post := &models.Post{ID: uuid.New(), AuthorID: author.ID}

	author.IsActive = false
	if CanMutate(author, post) {
		t.Error("deactivated author can still mutate their post")
	}
}

// TestCanReadDraft verifies the direct-lookup policy for unpublished posts:
// only the author sees their own draft.
func TestCanReadDraft(t *testing.T) {
	author := activeUser()
	other := activeUser()
	draft := &models.Post{ID: uuid.New(), AuthorID: author.ID, Status: models.StatusDraft}

	if !CanReadDraft(author, draft) {
		t.Error("author cannot read own draft")
	}
	if CanReadDraft(other, draft) {
		t.Error("non-author can read a draft")
	}
	if CanReadDraft(nil, draft) {
		t.Error("anonymous caller can read a draft")
	}
}
