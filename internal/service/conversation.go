package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// MaxConversationTitleLength bounds conversation titles.
const MaxConversationTitleLength = 200

// ConversationService handles business logic for conversations.
type ConversationService struct {
	conversations repository.ConversationRepository
	projects      repository.ProjectRepository
	users         repository.UserRepository
	logger        *slog.Logger
}

// NewConversationService creates a ConversationService. Creating a
// conversation is the one operation that walks the whole ownership chain,
// so this service needs all three repositories.
func NewConversationService(
	conversations repository.ConversationRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		projects:      projects,
		users:         users,
		logger:        logger,
	}
}

// Create validates and saves a new conversation.
//
// THE OWNERSHIP-CHAIN CHECK:
// A conversation may only be created by the user who owns the target
// project. Three conditions, three possible failures:
//
//  1. the user must exist         → "user not found"
//  2. the project must exist      → "project not found"
//  3. project.UserID == userID    → ALSO "project not found"
//
// Case 3 deliberately reuses the not-found error: answering "forbidden"
// would confirm to a non-owner that the project id exists. The stored
// conversation's UserID is the denormalized copy of the project owner that
// later ownership checks (snippet deletion) join against.
func (s *ConversationService) Create(ctx context.Context, projectID, userID int64, title string, aiModel model.AIModel) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "conversation title is required")
	}
	if len(title) > MaxConversationTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("conversation title must be %d characters or less", MaxConversationTitleLength))
	}
	if !aiModel.Valid() {
		return nil, apperror.ValidationFailed("ai_model",
			fmt.Sprintf("unknown AI model %q", aiModel))
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		// Same signal as a missing project — see the doc comment above.
		return nil, apperror.NotFound("project", projectID)
	}

	conv := &model.Conversation{
		ProjectID: projectID,
		UserID:    userID,
		Title:     title,
		Model:     aiModel,
	}

	if err := s.conversations.Create(ctx, conv); err != nil {
		s.logger.Error("failed to create conversation",
			slog.Int64("projectID", projectID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Info("conversation created",
		slog.Int64("id", conv.ID),
		slog.Int64("projectID", projectID),
		slog.String("model", string(aiModel)),
	)

	return conv, nil
}

// Update applies a partial update (title and/or model). An empty update
// still advances updated_at.
func (s *ConversationService) Update(ctx context.Context, id int64, upd model.ConversationUpdate) (*model.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title.Set {
		title := strings.TrimSpace(upd.Title.Value)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "conversation title must not be empty")
		}
		if len(title) > MaxConversationTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("conversation title must be %d characters or less", MaxConversationTitleLength))
		}
		conv.Title = title
	}
	if upd.Model.Set {
		if !upd.Model.Value.Valid() {
			return nil, apperror.ValidationFailed("ai_model",
				fmt.Sprintf("unknown AI model %q", upd.Model.Value))
		}
		conv.Model = upd.Model.Value
	}

	if err := s.conversations.Update(ctx, conv); err != nil {
		s.logger.Error("failed to update conversation",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating conversation: %w", err)
	}

	return conv, nil
}

// ListForProject returns the project's conversations, most recently
// touched first; unknown project ids give an empty list.
func (s *ConversationService) ListForProject(ctx context.Context, projectID int64) ([]model.Conversation, error) {
	convs, err := s.conversations.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to list conversations",
			slog.Int64("projectID", projectID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return convs, nil
}
