package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// MessageHandler exposes the message endpoints. Messages are append-only,
// so there is no update or delete route — transcripts only ever disappear
// through their conversation's cascade.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

type createMessageRequest struct {
	ConversationID int64             `json:"conversation_id"`
	Role           model.MessageRole `json:"role"`
	Content        string            `json:"content"`
	Metadata       model.Metadata    `json:"metadata"`
}

// HandleCreate appends a message to a conversation.
//
// HTTP: POST /api/messages
func (h *MessageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.messages.Create(r.Context(), req.ConversationID, req.Role, req.Content, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// HandleListForConversation returns a conversation's messages in
// chronological order — the one listing in the API that sorts ascending,
// because a transcript reads top to bottom.
//
// HTTP: GET /api/conversations/{id}/messages
func (h *MessageHandler) HandleListForConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	messages, err := h.messages.ListForConversation(r.Context(), conversationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
