package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// ConversationHandler exposes the conversation endpoints.
type ConversationHandler struct {
	conversations *service.ConversationService
	logger        *slog.Logger
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(conversations *service.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, logger: logger}
}

type createConversationRequest struct {
	ProjectID int64         `json:"project_id"`
	UserID    int64         `json:"user_id"`
	Title     string        `json:"title"`
	Model     model.AIModel `json:"ai_model"`
}

// HandleCreate starts a new conversation in a project.
//
// HTTP: POST /api/conversations
//
// The service checks the full ownership chain: the user must exist and the
// project must exist AND belong to that user. A project owned by someone
// else answers 404, the same as a project that isn't there.
func (h *ConversationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	conv, err := h.conversations.Create(r.Context(), req.ProjectID, req.UserID, req.Title, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// HandleUpdate applies a partial update to a conversation.
//
// HTTP: PATCH /api/conversations/{id}
func (h *ConversationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.ConversationUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	conv, err := h.conversations.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// HandleListForProject returns a project's conversations, most recently
// updated first.
//
// HTTP: GET /api/projects/{id}/conversations
func (h *ConversationHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	conversations, err := h.conversations.ListForProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversations)
}
