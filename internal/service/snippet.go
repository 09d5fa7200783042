package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/executor"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// Validation limits for snippet fields.
const (
	MaxSnippetTitleLength       = 100
	MaxSnippetCodeLength        = 100000 // ~100KB of code
	MaxSnippetDescriptionLength = 2000
)

// SnippetService handles business logic for code snippets: CRUD plus
// sandboxed execution of a saved snippet.
type SnippetService struct {
	snippets      repository.SnippetRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	exec          executor.Executor // nil when no sandbox is configured
	logger        *slog.Logger
}

// NewSnippetService creates a SnippetService. exec may be nil, in which
// case Execute reports that execution is unavailable.
func NewSnippetService(
	snippets repository.SnippetRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	exec executor.Executor,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets:      snippets,
		conversations: conversations,
		messages:      messages,
		exec:          exec,
		logger:        logger,
	}
}

// CreateSnippetParams carries the createCodeSnippet input.
type CreateSnippetParams struct {
	ConversationID int64
	MessageID      *int64
	Title          string
	Code           string
	Language       model.CodingLanguage
	Description    *string
}

// Create validates and saves a new code snippet.
//
// Two referential checks beyond field validation:
//   - the conversation must exist (not-found otherwise);
//   - if a message id is supplied, that message must exist (not-found) AND
//     belong to the SAME conversation — a cross-conversation link is
//     rejected as bad input, since both rows exist and only their pairing
//     is wrong. The schema can't express that pairing; this check is it.
func (s *SnippetService) Create(ctx context.Context, p CreateSnippetParams) (*model.CodeSnippet, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, apperror.ValidationFailed("title", "snippet title is required")
	}
	if len(p.Title) > MaxSnippetTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxSnippetTitleLength))
	}
	if p.Code == "" {
		return nil, apperror.ValidationFailed("code", "snippet code is required")
	}
	if len(p.Code) > MaxSnippetCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("snippet code must be %d characters or less", MaxSnippetCodeLength))
	}
	if !p.Language.Valid() {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("unknown coding language %q", p.Language))
	}
	if p.Description != nil && len(*p.Description) > MaxSnippetDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxSnippetDescriptionLength))
	}

	if _, err := s.conversations.GetByID(ctx, p.ConversationID); err != nil {
		return nil, err
	}

	if p.MessageID != nil {
		msg, err := s.messages.GetByID(ctx, *p.MessageID)
		if err != nil {
			return nil, err
		}
		if msg.ConversationID != p.ConversationID {
			return nil, apperror.ValidationFailed("message_id",
				fmt.Sprintf("message %d does not belong to conversation %d", *p.MessageID, p.ConversationID))
		}
	}

	snippet := &model.CodeSnippet{
		ConversationID: p.ConversationID,
		MessageID:      p.MessageID,
		Title:          p.Title,
		Code:           p.Code,
		Language:       p.Language,
		Description:    p.Description,
	}

	if err := s.snippets.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.Int64("conversationID", p.ConversationID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int64("id", snippet.ID),
		slog.Int64("conversationID", p.ConversationID),
		slog.String("language", string(p.Language)),
	)

	return snippet, nil
}

// Update applies a partial update. The conversation/message links are not
// updatable; an empty update still advances updated_at.
func (s *SnippetService) Update(ctx context.Context, id int64, upd model.CodeSnippetUpdate) (*model.CodeSnippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title.Set {
		title := strings.TrimSpace(upd.Title.Value)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "snippet title must not be empty")
		}
		if len(title) > MaxSnippetTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("snippet title must be %d characters or less", MaxSnippetTitleLength))
		}
		snippet.Title = title
	}
	if upd.Code.Set {
		if upd.Code.Value == "" {
			return nil, apperror.ValidationFailed("code", "snippet code must not be empty")
		}
		if len(upd.Code.Value) > MaxSnippetCodeLength {
			return nil, apperror.ValidationFailed("code",
				fmt.Sprintf("snippet code must be %d characters or less", MaxSnippetCodeLength))
		}
		snippet.Code = upd.Code.Value
	}
	if upd.Language.Set {
		if !upd.Language.Value.Valid() {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("unknown coding language %q", upd.Language.Value))
		}
		snippet.Language = upd.Language.Value
	}
	if upd.Description.Set {
		if upd.Description.Value != nil && len(*upd.Description.Value) > MaxSnippetDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxSnippetDescriptionLength))
		}
		snippet.Description = upd.Description.Value
	}

	if err := s.snippets.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	return snippet, nil
}

// ListForConversation returns the conversation's snippets, newest first.
func (s *SnippetService) ListForConversation(ctx context.Context, conversationID int64) ([]model.CodeSnippet, error) {
	snippets, err := s.snippets.ListByConversation(ctx, conversationID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.Int64("conversationID", conversationID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Delete removes the snippet if userID owns the conversation it belongs
// to. Like project deletion, the answer is a boolean and repeated calls
// are harmless.
func (s *SnippetService) Delete(ctx context.Context, id, userID int64) (bool, error) {
	deleted, err := s.snippets.DeleteOwned(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to delete snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("deleting snippet: %w", err)
	}

	if deleted {
		s.logger.Info("snippet deleted",
			slog.Int64("id", id),
			slog.Int64("userID", userID),
		)
	}

	return deleted, nil
}

// Execute runs a saved snippet in the sandbox and returns its output.
// Only the owner (via the snippet's conversation) may run it — here the
// failure is Forbidden rather than not-found, because the caller could
// already read the snippet through the list endpoint.
func (s *SnippetService) Execute(ctx context.Context, id, userID int64) (*executor.ExecutionResult, error) {
	if s.exec == nil {
		return nil, apperror.ValidationFailed("", "code execution is not available on this server")
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.GetByID(ctx, snippet.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("resolving snippet owner: %w", err)
	}
	if conv.UserID != userID {
		return nil, apperror.Forbidden("only the snippet's owner may execute it")
	}

	result, err := s.exec.Execute(ctx, executor.ExecutionRequest{
		Language: snippet.Language,
		Code:     snippet.Code,
	})
	if err != nil {
		if errors.Is(err, executor.ErrUnsupportedLanguage) {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("execution is not supported for %s snippets", snippet.Language))
		}
		s.logger.Error("snippet execution failed",
			slog.Int64("id", id),
			slog.String("language", string(snippet.Language)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("executing snippet %d: %w", id, err)
	}

	s.logger.Info("snippet executed",
		slog.Int64("id", id),
		slog.String("language", string(snippet.Language)),
		slog.Int("exitCode", result.ExitCode),
	)

	return result, nil
}
