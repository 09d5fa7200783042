// Package repository declares the data-access interfaces the service layer
// depends on. One narrow interface per entity, one method per operation —
// the sqlite package implements all of them on a single *DB, and tests
// implement whichever subset they need with in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/codechat/internal/model"
)

// UserRepository persists user accounts.
//
// GetByAuth looks a user up by their (auth_provider, auth_provider_id)
// pair. That pair is NOT globally unique across providers, but it is
// unique within one provider, which is all a login flow needs.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByAuth(ctx context.Context, provider model.AuthProvider, providerID string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// ProjectRepository persists projects.
//
// DeleteOwned removes the project only if BOTH the id and the owning user
// id match — the existence check and the mutation are one conditional
// DELETE statement, the single truly atomic check+write in this design.
// It reports whether a row was actually removed.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	DeleteOwned(ctx context.Context, id, userID int64) (bool, error)
}

// ConversationRepository persists conversations. Conversations are never
// deleted directly — they go away when their project (or user) does, via
// the store's cascade.
type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) error
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Conversation, error)
	Update(ctx context.Context, conv *model.Conversation) error
}

// MessageRepository persists messages. No Update — messages are immutable —
// and no Delete — transcripts only disappear with their conversation.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]model.Message, error)
}

// SnippetRepository persists code snippets.
//
// Snippets carry no owner column, so DeleteOwned verifies ownership by
// joining through the snippet's conversation to its denormalized user_id.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.CodeSnippet) error
	GetByID(ctx context.Context, id int64) (*model.CodeSnippet, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]model.CodeSnippet, error)
	Update(ctx context.Context, snippet *model.CodeSnippet) error
	DeleteOwned(ctx context.Context, id, userID int64) (bool, error)
}
