package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
)

func TestProjectCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "owner@example.com")
	repo := NewProjectRepo(db)

	desc := "a chat bot"
	project := &model.Project{
		UserID:      user.ID,
		Name:        "chatbot",
		Description: &desc,
		Language:    model.LangPython,
	}
	if err := repo.Create(context.Background(), project); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if project.ID == 0 {
		t.Error("Create() did not set project.ID")
	}

	found, err := repo.GetByID(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != "chatbot" {
		t.Errorf("Name = %q, want %q", found.Name, "chatbot")
	}
	if found.Description == nil || *found.Description != desc {
		t.Errorf("Description = %v, want %q", found.Description, desc)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", found.UserID, user.ID)
	}
}

func TestProjectGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := NewProjectRepo(db).GetByID(context.Background(), 77)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestProjectListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "empty@example.com")

	projects, err := NewProjectRepo(db).ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	// Empty slice, not nil, not an error.
	if len(projects) != 0 {
		t.Errorf("ListByUser() returned %d projects, want 0", len(projects))
	}
}

func TestProjectListByUser_OrderedByRecency(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "order@example.com")
	repo := NewProjectRepo(db)

	first := seedProject(t, db, user.ID, "first")
	seedProject(t, db, user.ID, "second")

	// Touching the older project must move it to the front — the listing
	// sorts by updated_at, not created_at.
	first.Name = "first (touched)"
	if err := repo.Update(context.Background(), first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	projects, err := repo.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("ListByUser() returned %d projects, want 2", len(projects))
	}
	if projects[0].ID != first.ID {
		t.Errorf("first listed project = %d, want recently-updated %d", projects[0].ID, first.ID)
	}
}

func TestProjectListByUser_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	seedProject(t, db, alice.ID, "alice's")
	seedProject(t, db, bob.ID, "bob's")

	projects, err := NewProjectRepo(db).ListByUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "alice's" {
		t.Errorf("ListByUser() = %+v, want only alice's project", projects)
	}
}

func TestProjectUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Project{ID: 31337, Name: "ghost", Language: model.LangGo}
	err := NewProjectRepo(db).Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestProjectDeleteOwned(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "deleter@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	repo := NewProjectRepo(db)
	project := seedProject(t, db, owner.ID, "doomed")

	// A non-owner gets false and the project survives.
	deleted, err := repo.DeleteOwned(context.Background(), project.ID, stranger.ID)
	if err != nil {
		t.Fatalf("DeleteOwned() non-owner error = %v", err)
	}
	if deleted {
		t.Error("DeleteOwned() by non-owner reported true")
	}
	if _, err := repo.GetByID(context.Background(), project.ID); err != nil {
		t.Errorf("project should survive a non-owner delete: %v", err)
	}

	// The owner gets true.
	deleted, err = repo.DeleteOwned(context.Background(), project.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteOwned() error = %v", err)
	}
	if !deleted {
		t.Error("DeleteOwned() by owner reported false")
	}

	// Repeating the call is idempotent: false, no error.
	deleted, err = repo.DeleteOwned(context.Background(), project.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteOwned() repeat error = %v", err)
	}
	if deleted {
		t.Error("DeleteOwned() repeat reported true")
	}
}

func TestProjectDelete_CascadesToDescendants(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "cascade@example.com")
	project := seedProject(t, db, user.ID, "tree")
	conv := seedConversation(t, db, project.ID, user.ID, "thread")
	msg := seedMessage(t, db, conv.ID, model.RoleUser, "hi")
	snippet := seedSnippet(t, db, conv.ID, "kept code")

	deleted, err := NewProjectRepo(db).DeleteOwned(ctx, project.ID, user.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteOwned() = (%v, %v), want (true, nil)", deleted, err)
	}

	// Everything below the project falls to the declared cascades — no code
	// deletes these rows.
	if _, err := NewConversationRepo(db).GetByID(ctx, conv.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("conversation should cascade: error = %v, want ErrNotFound", err)
	}
	if _, err := NewMessageRepo(db).GetByID(ctx, msg.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("message should cascade: error = %v, want ErrNotFound", err)
	}
	if _, err := NewSnippetRepo(db).GetByID(ctx, snippet.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("snippet should cascade: error = %v, want ErrNotFound", err)
	}
}
