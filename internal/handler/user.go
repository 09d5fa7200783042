package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// UserHandler exposes the user endpoints: registration, lookup by id,
// lookup by auth credentials, and partial profile updates.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// createUserRequest is the POST /api/users body. The JSON field names match
// the column names the frontend already knows from the response shape.
type createUserRequest struct {
	Email          string               `json:"email"`
	Name           string               `json:"name"`
	AvatarURL      *string              `json:"avatar_url"`
	AuthProvider   model.AuthProvider   `json:"auth_provider"`
	AuthProviderID string               `json:"auth_provider_id"`
	Password       string               `json:"password"`
	PreferredLang  model.CodingLanguage `json:"preferred_coding_language"`
	PreferredModel model.AIModel        `json:"preferred_ai_model"`
}

// HandleCreate registers a new user.
//
// HTTP: POST /api/users
// Duplicate email → 409, invalid fields → 400.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserParams{
		Email:          req.Email,
		Name:           req.Name,
		AvatarURL:      req.AvatarURL,
		Provider:       req.AuthProvider,
		ProviderID:     req.AuthProviderID,
		Password:       req.Password,
		PreferredLang:  req.PreferredLang,
		PreferredModel: req.PreferredModel,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGet fetches one user by id.
//
// HTTP: GET /api/users/{id}
//
// The service reports a clean miss as (nil, nil); that becomes a plain 404
// here rather than an error worth logging.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "user not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// lookupRequest is the POST /api/users/lookup body. Lookup is a POST, not a
// GET: the email-provider variant carries a password, which must never
// appear in a URL (query strings end up in access logs and browser
// history).
type lookupRequest struct {
	AuthProvider   model.AuthProvider `json:"auth_provider"`
	AuthProviderID string             `json:"auth_provider_id"`
	Password       string             `json:"password"`
}

// HandleLookup finds a user by auth provider credentials.
//
// HTTP: POST /api/users/lookup
// No match (or wrong password) → 404 with no hint which it was.
func (h *UserHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByAuth(r.Context(), service.GetByAuthParams{
		Provider:   req.AuthProvider,
		ProviderID: req.AuthProviderID,
		Password:   req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "no user matches those credentials",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate applies a partial profile update.
//
// HTTP: PATCH /api/users/{id}
//
// The body decodes into model.UserUpdate, whose Field wrappers record which
// keys were present — so {"avatar_url": null} clears the avatar while an
// absent key leaves it alone.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.UserUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
