package sqlite

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives every test a fresh, private database that lives exactly
// as long as the connection. Fast, isolated, nothing to clean up — and the
// real schema, real foreign keys, and real CHECK constraints are all in
// play, so these tests exercise the cascades too.

import (
	"context"
	"testing"

	"github.com/sakif/codechat/internal/model"
)

// newTestDB opens a throwaway database with the full schema applied.
// t.Helper() makes failures report at the caller's line.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser creates a user with sane defaults. Email must be unique per
// test, so it's a parameter.
func seedUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:          email,
		Name:           "Test User",
		AuthProvider:   model.AuthProviderGoogle,
		AuthProviderID: "google-" + email,
		PreferredLang:  model.LangPython,
		PreferredModel: model.AIModelClaudeSonnet,
	}
	if err := NewUserRepo(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProject(t *testing.T, db *DB, userID int64, name string) *model.Project {
	t.Helper()
	project := &model.Project{
		UserID:   userID,
		Name:     name,
		Language: model.LangGo,
	}
	if err := NewProjectRepo(db).Create(context.Background(), project); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func seedConversation(t *testing.T, db *DB, projectID, userID int64, title string) *model.Conversation {
	t.Helper()
	conv := &model.Conversation{
		ProjectID: projectID,
		UserID:    userID,
		Title:     title,
		Model:     model.AIModelClaudeSonnet,
	}
	if err := NewConversationRepo(db).Create(context.Background(), conv); err != nil {
		t.Fatalf("failed to seed conversation: %v", err)
	}
	return conv
}

func seedMessage(t *testing.T, db *DB, conversationID int64, role model.MessageRole, content string) *model.Message {
	t.Helper()
	msg := &model.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := NewMessageRepo(db).Create(context.Background(), msg); err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
	return msg
}

func seedSnippet(t *testing.T, db *DB, conversationID int64, title string) *model.CodeSnippet {
	t.Helper()
	snippet := &model.CodeSnippet{
		ConversationID: conversationID,
		Title:          title,
		Code:           "print('hello')",
		Language:       model.LangPython,
	}
	if err := NewSnippetRepo(db).Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to seed snippet: %v", err)
	}
	return snippet
}
