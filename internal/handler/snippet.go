package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// SnippetHandler exposes the code snippet endpoints: CRUD plus sandboxed
// execution of a saved snippet.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

type createSnippetRequest struct {
	ConversationID int64                `json:"conversation_id"`
	MessageID      *int64               `json:"message_id"`
	Title          string               `json:"title"`
	Code           string               `json:"code"`
	Language       model.CodingLanguage `json:"language"`
	Description    *string              `json:"description"`
}

// HandleCreate saves a code snippet out of a conversation.
//
// HTTP: POST /api/snippets
//
// message_id is optional; when present it must name a message in the SAME
// conversation, otherwise the request is a 400.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSnippetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Create(r.Context(), service.CreateSnippetParams{
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		Title:          req.Title,
		Code:           req.Code,
		Language:       req.Language,
		Description:    req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate applies a partial update to a snippet.
//
// HTTP: PATCH /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.CodeSnippetUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleListForConversation returns a conversation's snippets, newest
// first.
//
// HTTP: GET /api/conversations/{id}/snippets
func (h *SnippetHandler) HandleListForConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	snippets, err := h.snippets.ListForConversation(r.Context(), conversationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleDelete deletes a snippet if the requesting user owns the
// conversation it lives in.
//
// HTTP: DELETE /api/snippets/{id}?user_id=N
// Same {"deleted": bool} contract as project deletion.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := queryID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.snippets.Delete(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// executeResponse is the JSON shape for an execution result. Duration goes
// out in milliseconds — a time.Duration would marshal as opaque
// nanoseconds.
type executeResponse struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
}

// HandleExecute runs a saved snippet in the sandbox.
//
// HTTP: POST /api/snippets/{id}/execute?user_id=N
//
// Only the owner may execute (403 otherwise), and only languages with a
// configured sandbox runtime can run (400 otherwise). A non-zero exit code
// is still a 200 — the EXECUTION succeeded, the snippet just failed.
func (h *SnippetHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := queryID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.snippets.Execute(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		ExitCode:   result.ExitCode,
		DurationMS: result.Duration.Milliseconds(),
	})
}
