package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:          "ada@example.com",
		Name:           "Ada",
		AuthProvider:   model.AuthProviderGoogle,
		AuthProviderID: "g-123",
		PreferredLang:  model.LangPython,
		PreferredModel: model.AIModelClaudeSonnet,
	}

	if err := NewUserRepo(db).Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Create fills the store-assigned fields in place.
	if user.ID == 0 {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	seedUser(t, db, "taken@example.com")

	dup := &model.User{
		Email:          "taken@example.com",
		Name:           "Other",
		AuthProvider:   model.AuthProviderEmail,
		AuthProviderID: "taken@example.com",
		PreferredLang:  model.LangGo,
		PreferredModel: model.AIModelGPT4,
	}

	err := repo.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() with duplicate email should have failed")
	}
	// The UNIQUE violation must surface as Conflict, not a raw driver error.
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := seedUser(t, db, "fetch@example.com")

	found, err := NewUserRepo(db).GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Email != "fetch@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "fetch@example.com")
	}
	if found.AvatarURL != nil {
		t.Errorf("AvatarURL = %v, want nil (column was NULL)", *found.AvatarURL)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := NewUserRepo(db).GetByID(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByAuth(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	created := seedUser(t, db, "oauth@example.com")

	found, err := repo.GetByAuth(context.Background(), model.AuthProviderGoogle, created.AuthProviderID)
	if err != nil {
		t.Fatalf("GetByAuth() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}

	// Same provider id under a DIFFERENT provider must not match — the
	// predicate is the pair, not the id alone.
	_, err = repo.GetByAuth(context.Background(), model.AuthProviderFacebook, created.AuthProviderID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByAuth() wrong provider: error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	user := seedUser(t, db, "update@example.com")

	avatar := "https://example.com/a.png"
	user.Name = "Renamed"
	user.AvatarURL = &avatar
	user.PreferredModel = model.AIModelGeminiFlash

	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if found.Name != "Renamed" {
		t.Errorf("Name = %q, want %q", found.Name, "Renamed")
	}
	if found.AvatarURL == nil || *found.AvatarURL != avatar {
		t.Errorf("AvatarURL = %v, want %q", found.AvatarURL, avatar)
	}
	if found.PreferredModel != model.AIModelGeminiFlash {
		t.Errorf("PreferredModel = %q, want %q", found.PreferredModel, model.AIModelGeminiFlash)
	}
	if !found.UpdatedAt.After(found.CreatedAt) {
		t.Error("UpdatedAt should advance past CreatedAt after an update")
	}
}

func TestUserUpdate_ClearNullable(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	user := seedUser(t, db, "clear@example.com")

	avatar := "https://example.com/a.png"
	user.AvatarURL = &avatar
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() set avatar: %v", err)
	}

	// Writing nil must put NULL back in the column.
	user.AvatarURL = nil
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() clear avatar: %v", err)
	}

	found, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.AvatarURL != nil {
		t.Errorf("AvatarURL = %q, want nil", *found.AvatarURL)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.User{
		ID:             424242,
		Name:           "Ghost",
		PreferredLang:  model.LangPython,
		PreferredModel: model.AIModelGPT4,
	}
	err := NewUserRepo(db).Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}
