package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codechat/internal/auth"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/service"
)

// AuthHandler manages the OAuth login flows, email+password login, and the
// session cookie.
//
// Route map:
//   - GET  /auth/{provider}/login    → redirect to the provider's consent page
//   - GET  /auth/{provider}/callback → code exchange, upsert, issue JWT cookie
//   - POST /auth/login               → email+password login
//   - POST /auth/logout              → clear the JWT cookie
//   - GET  /auth/me                  → current user's profile (RequireAuth)
type AuthHandler struct {
	providers map[model.AuthProvider]*auth.Provider
	tokens    *auth.TokenService
	users     *service.UserService
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler. providers may be empty — a server
// configured without OAuth credentials still supports email login.
func NewAuthHandler(
	providers []*auth.Provider,
	tokens *auth.TokenService,
	users *service.UserService,
	logger *slog.Logger,
) *AuthHandler {
	byName := make(map[model.AuthProvider]*auth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthHandler{
		providers: byName,
		tokens:    tokens,
		users:     users,
		logger:    logger,
	}
}

// provider resolves the {provider} URL parameter to a configured OAuth
// provider, or writes the error response itself and returns nil.
func (h *AuthHandler) provider(w http.ResponseWriter, r *http.Request) *auth.Provider {
	name := model.AuthProvider(r.PathValue("provider"))
	p, ok := h.providers[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "unknown or unconfigured auth provider",
		})
		return nil
	}
	return p
}

// HandleLogin redirects the user to the provider's authorization page.
//
// HTTP: GET /auth/{provider}/login
//
// The random state goes into a short-lived cookie before the redirect;
// the callback verifies the provider echoed the same value. HttpOnly +
// SameSite=Lax, 10-minute expiry — long enough to approve, short enough
// to limit the replay window.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	p := h.provider(w, r)
	if p == nil {
		return
	}

	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, p.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes an OAuth login.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
//
// Flow: verify the CSRF state, exchange the code for a profile, find or
// create the user, issue the JWT cookie, redirect home. A first login
// creates the account with default preferences; every later login is a
// pure lookup on (provider, provider id).
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	p := h.provider(w, r)
	if p == nil {
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch", slog.String("provider", string(p.Name())))
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// The provider reports denial as an error query parameter, not a code.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("provider", string(p.Name())),
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	profile, err := p.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: exchange failed",
			slog.String("provider", string(p.Name())),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.findOrCreateUser(r, p.Name(), profile)
	if err != nil {
		h.logger.Error("auth callback: resolving user failed",
			slog.String("provider", string(p.Name())),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user authenticated",
		slog.Int64("userID", user.ID),
		slog.String("provider", string(p.Name())),
	)

	if err := h.setSessionCookie(w, user.ID); err != nil {
		h.logger.Error("auth callback: token generation failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// findOrCreateUser implements the login-is-signup behavior of OAuth: an
// unknown (provider, id) pair registers a new account with default
// preferences.
func (h *AuthHandler) findOrCreateUser(r *http.Request, provider model.AuthProvider, profile *auth.Profile) (*model.User, error) {
	user, err := h.users.GetByAuth(r.Context(), service.GetByAuthParams{
		Provider:   provider,
		ProviderID: profile.ID,
	})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	var avatar *string
	if profile.AvatarURL != "" {
		avatar = &profile.AvatarURL
	}

	// A Conflict here means the email is already registered under a
	// different provider. We do not silently link accounts — the user must
	// log in the way they signed up.
	return h.users.Create(r.Context(), service.CreateUserParams{
		Email:          profile.Email,
		Name:           profile.Name,
		AvatarURL:      avatar,
		Provider:       provider,
		ProviderID:     profile.ID,
		PreferredLang:  model.LangPython,
		PreferredModel: model.AIModelClaudeSonnet,
	})
}

// emailLoginRequest is the POST /auth/login body.
type emailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleEmailLogin signs in a user on the email auth provider.
//
// HTTP: POST /auth/login
//
// Wrong password and unknown email answer identically (401) so the
// endpoint can't confirm which emails have accounts.
func (h *AuthHandler) HandleEmailLogin(w http.ResponseWriter, r *http.Request) {
	var req emailLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByAuth(r.Context(), service.GetByAuthParams{
		Provider:   model.AuthProviderEmail,
		ProviderID: req.Email,
		Password:   req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid email or password",
		})
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		h.logger.Error("email login: token generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /auth/logout
//
// POST, not GET: logout changes state, and GETs are pre-fetchable and
// CSRF-able. Sessions are stateless JWTs, so "logout" is purely deleting
// the client's cookie; the token stays valid until its 15-minute expiry,
// but no browser will send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /auth/me
// Auth: required — RequireAuth has already put the user id in context.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't bet on route wiring.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		// A valid token for a deleted account.
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "user not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie issues a JWT for userID and stores it the standard way:
// HttpOnly (XSS can't read it), SameSite=Lax (not sent on cross-site
// POSTs). Secure should be set in production behind HTTPS.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, userID int64) error {
	tokenStr, err := h.tokens.Generate(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int((15 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
