// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates input, enforces access rules
//	Repository (data layer)  → reads/writes the store
//
// Services accept plain values and return domain errors (apperror); they
// know nothing about HTTP, and they receive repository INTERFACES, never
// the sqlite package — tests inject in-memory mocks through the same seam.
//
// ACCESS RULES LIVE HERE:
// Every mutating operation runs its existence/ownership lookups in the
// service before touching the store. The lookup and the write are separate
// statements — a concurrent delete sneaking between them is an accepted
// race (the store's foreign keys still hold the line). The one exception
// is the conditional delete, where the repository folds the check into the
// DELETE itself.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/auth"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// Validation limits for user fields.
const (
	MaxUserNameLength = 100
	MaxEmailLength    = 254 // RFC 5321 upper bound
)

// UserService handles business logic for user accounts.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService. The PasswordService is only
// exercised for the "email" auth provider; OAuth accounts never touch it.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateUserParams carries the createUser input. Password is optional and
// only meaningful for the email provider — it is hashed before storage and
// never persisted in the clear.
type CreateUserParams struct {
	Email          string
	Name           string
	AvatarURL      *string
	Provider       model.AuthProvider
	ProviderID     string
	Password       string
	PreferredLang  model.CodingLanguage
	PreferredModel model.AIModel
}

// Create validates and registers a new user.
//
// Duplicate emails surface as apperror.ErrConflict straight from the
// repository (the store's UNIQUE constraint is the authority — no
// check-then-insert race here).
func (s *UserService) Create(ctx context.Context, p CreateUserParams) (*model.User, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)

	if p.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(p.Email) > MaxEmailLength {
		return nil, apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, apperror.ValidationFailed("email", "email is not a valid address")
	}
	if p.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(p.Name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
	}
	if !p.Provider.Valid() {
		return nil, apperror.ValidationFailed("auth_provider",
			fmt.Sprintf("unknown auth provider %q", p.Provider))
	}
	if strings.TrimSpace(p.ProviderID) == "" {
		return nil, apperror.ValidationFailed("auth_provider_id", "auth provider id is required")
	}
	if !p.PreferredLang.Valid() {
		return nil, apperror.ValidationFailed("preferred_coding_language",
			fmt.Sprintf("unknown coding language %q", p.PreferredLang))
	}
	if !p.PreferredModel.Valid() {
		return nil, apperror.ValidationFailed("preferred_ai_model",
			fmt.Sprintf("unknown AI model %q", p.PreferredModel))
	}
	if p.Password != "" && p.Provider != model.AuthProviderEmail {
		return nil, apperror.ValidationFailed("password",
			"passwords are only supported for the email auth provider")
	}

	user := &model.User{
		Email:          p.Email,
		Name:           p.Name,
		AvatarURL:      p.AvatarURL,
		AuthProvider:   p.Provider,
		AuthProviderID: p.ProviderID,
		PreferredLang:  p.PreferredLang,
		PreferredModel: p.PreferredModel,
	}

	if p.Password != "" {
		hash, err := s.passwords.Hash(p.Password)
		if err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		user.PasswordHash = &hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Conflict (duplicate email) is a normal client error, not worth an
		// error-level log line.
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create user",
				slog.String("email", p.Email),
				slog.String("error", err.Error()),
			)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("provider", string(user.AuthProvider)),
	)

	return user, nil
}

// GetByID returns the user, or (nil, nil) if no such user exists — point
// lookups signal absence, they don't fail.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return user, nil
}

// GetByAuthParams carries the getUserByAuth input. Password is only
// checked for the email provider.
type GetByAuthParams struct {
	Provider   model.AuthProvider
	ProviderID string
	Password   string
}

// GetByAuth looks a user up by provider credentials, returning (nil, nil)
// when no account matches. For the email provider a wrong password is
// reported the same way as a missing account — the caller can't tell which
// guess was wrong.
func (s *UserService) GetByAuth(ctx context.Context, p GetByAuthParams) (*model.User, error) {
	if !p.Provider.Valid() {
		return nil, apperror.ValidationFailed("auth_provider",
			fmt.Sprintf("unknown auth provider %q", p.Provider))
	}
	if strings.TrimSpace(p.ProviderID) == "" {
		return nil, apperror.ValidationFailed("auth_provider_id", "auth provider id is required")
	}

	user, err := s.users.GetByAuth(ctx, p.Provider, p.ProviderID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user by auth: %w", err)
	}

	if p.Provider == model.AuthProviderEmail {
		if user.PasswordHash == nil || p.Password == "" {
			return nil, nil
		}
		if err := s.passwords.Verify(*user.PasswordHash, p.Password); err != nil {
			return nil, nil
		}
	}

	return user, nil
}

// Update applies a partial update: only fields the caller supplied are
// touched; everything else is carried over from the fetched row. Even an
// empty update succeeds and still advances updated_at.
//
// FETCH THEN UPDATE:
// Fetching first gives us consistent not-found semantics and the full
// post-update row to return, at the cost of the (accepted) read/write race.
func (s *UserService) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name.Set {
		name := strings.TrimSpace(upd.Name.Value)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name must not be empty")
		}
		if len(name) > MaxUserNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
		}
		user.Name = name
	}
	if upd.AvatarURL.Set {
		// Explicit null clears the avatar; a value replaces it.
		user.AvatarURL = upd.AvatarURL.Value
	}
	if upd.PreferredLang.Set {
		if !upd.PreferredLang.Value.Valid() {
			return nil, apperror.ValidationFailed("preferred_coding_language",
				fmt.Sprintf("unknown coding language %q", upd.PreferredLang.Value))
		}
		user.PreferredLang = upd.PreferredLang.Value
	}
	if upd.PreferredModel.Set {
		if !upd.PreferredModel.Value.Valid() {
			return nil, apperror.ValidationFailed("preferred_ai_model",
				fmt.Sprintf("unknown AI model %q", upd.PreferredModel.Value))
		}
		user.PreferredModel = upd.PreferredModel.Value
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return user, nil
}
