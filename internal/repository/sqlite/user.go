package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// Compile-time check that *UserRepo implements repository.UserRepository.
// `var _ X = (*Y)(nil)` costs nothing at runtime but turns a missing method
// into a build error instead of a surprise at wiring time.
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository over the shared DB.
//
// ONE REPO TYPE PER ENTITY:
// All five repos share the same connection pool; splitting them into
// separate types keeps method sets small and lets each repo satisfy exactly
// one interface (five Create methods can't live on one receiver anyway).
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a UserRepo backed by db.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and fills in the store-assigned id and
// timestamps on the passed struct (pointer receiver on the model — the
// caller's copy is the one that gets the id).
//
// The email column is UNIQUE; a duplicate surfaces as apperror.Conflict
// rather than a raw driver error so the handler can answer 409.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (email, name, avatar_url, auth_provider, auth_provider_id,
		                    password_hash, preferred_coding_language, preferred_ai_model,
		                    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.AuthProvider,
		user.AuthProviderID,
		user.PasswordHash,
		user.PreferredLang,
		user.PreferredModel,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", fmt.Sprintf("email %q is already registered", user.Email))
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	// LastInsertId returns the AUTOINCREMENT key SQLite just assigned.
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, avatar_url, auth_provider, auth_provider_id,
		        password_hash, preferred_coding_language, preferred_ai_model,
		        created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return user, nil
}

// GetByAuth retrieves a user by their (auth_provider, auth_provider_id)
// pair. The pair is unique per provider but not across providers, so both
// columns are in the predicate.
func (r *UserRepo) GetByAuth(ctx context.Context, provider model.AuthProvider, providerID string) (*model.User, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, avatar_url, auth_provider, auth_provider_id,
		        password_hash, preferred_coding_language, preferred_ai_model,
		        created_at, updated_at
		 FROM users WHERE auth_provider = ? AND auth_provider_id = ?`,
		provider, providerID,
	)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundf("user not found for provider %s", provider)
		}
		return nil, fmt.Errorf("sqlite: getting user by auth (%s, %s): %w", provider, providerID, err)
	}

	return user, nil
}

// Update rewrites the mutable columns of an existing user and refreshes
// updated_at. The service layer has already applied the partial-update
// fields onto a freshly fetched row, so writing the full set of mutable
// columns here is what makes "absent fields stay unchanged" true.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, avatar_url = ?, preferred_coding_language = ?,
		     preferred_ai_model = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.AvatarURL,
		user.PreferredLang,
		user.PreferredModel,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// scanUser reads one user row. Shared by the two point lookups so the
// column order lives in exactly one place per query shape.
func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.AvatarURL,
		&u.AuthProvider,
		&u.AuthProviderID,
		&u.PasswordHash,
		&u.PreferredLang,
		&u.PreferredModel,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
