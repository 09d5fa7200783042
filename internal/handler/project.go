package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// ProjectHandler exposes the project endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type createProjectRequest struct {
	UserID      int64                `json:"user_id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Language    model.CodingLanguage `json:"coding_language"`
}

// HandleCreate creates a project for a user.
//
// HTTP: POST /api/projects
// Unknown user → 404, invalid fields → 400.
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projects.Create(r.Context(), req.UserID, req.Name, req.Description, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// HandleUpdate applies a partial update to a project.
//
// HTTP: PATCH /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.ProjectUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projects.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleListForUser returns a user's projects, most recently updated first.
//
// HTTP: GET /api/users/{id}/projects
// A user with no projects gets an empty array, not a 404 — only the
// collection is being addressed, and an empty collection exists.
func (h *ProjectHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	projects, err := h.projects.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// HandleDelete deletes a project if the requesting user owns it.
//
// HTTP: DELETE /api/projects/{id}?user_id=N
//
// The response is always 200 with {"deleted": bool} — false covers both "no
// such project" and "not yours", deliberately indistinguishable so the
// endpoint can't be used to probe which project ids exist.
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.projects.Delete(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
