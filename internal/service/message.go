package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// MaxMessageContentLength bounds message bodies (~256KB — model responses
// with large code blocks fit comfortably).
const MaxMessageContentLength = 262144

// MessageService handles business logic for conversation messages.
type MessageService struct {
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	logger        *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(messages repository.MessageRepository, conversations repository.ConversationRepository, logger *slog.Logger) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		logger:        logger,
	}
}

// Create appends a message to an existing conversation. The metadata
// mapping is stored opaquely — callers can put anything JSON-shaped in it,
// and nil means "no metadata" (stored and returned as null).
//
// There is no Update counterpart: messages are immutable once created.
func (s *MessageService) Create(ctx context.Context, conversationID int64, role model.MessageRole, content string, metadata model.Metadata) (*model.Message, error) {
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role",
			fmt.Sprintf("unknown message role %q", role))
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "message content is required")
	}
	if len(content) > MaxMessageContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("message content must be %d bytes or less", MaxMessageContentLength))
	}

	// The conversation must exist; a stale id is a not-found, and the
	// FK would reject the insert anyway.
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("failed to create message",
			slog.Int64("conversationID", conversationID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.logger.Info("message created",
		slog.Int64("id", msg.ID),
		slog.Int64("conversationID", conversationID),
		slog.String("role", string(role)),
	)

	return msg, nil
}

// ListForConversation returns the transcript oldest-first. Unknown
// conversation ids give an empty transcript, not an error.
func (s *MessageService) ListForConversation(ctx context.Context, conversationID int64) ([]model.Message, error) {
	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		s.logger.Error("failed to list messages",
			slog.Int64("conversationID", conversationID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}
