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

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implements repository.ProjectRepository over the shared DB.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a ProjectRepo backed by db.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create inserts a new project and fills in the assigned id and timestamps.
// The user_id foreign key will also reject a dangling owner, but the
// service checks existence first so the caller gets a proper not-found.
func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO projects (user_id, name, description, coding_language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project.UserID,
		project.Name,
		project.Description,
		project.Language,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}

	project.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new project id: %w", err)
	}

	return nil
}

// GetByID retrieves a project by its id.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, coding_language, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %d: %w", id, err)
	}

	return &p, nil
}

// ListByUser returns the user's projects, most recently touched first.
// A user with no projects (or a nonexistent user id) yields an empty
// slice, not an error — "nothing there" is a normal answer for a list.
func (r *ProjectRepo) ListByUser(ctx context.Context, userID int64) ([]model.Project, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, description, coding_language, created_at, updated_at
		 FROM projects
		 WHERE user_id = ?
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects for user %d: %w", userID, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Description, &p.Language,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}

	return projects, nil
}

// Update rewrites the mutable columns and refreshes updated_at.
func (r *ProjectRepo) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE projects
		 SET name = ?, description = ?, coding_language = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name,
		project.Description,
		project.Language,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %d: %w", project.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("project", project.ID)
	}

	return nil
}

// DeleteOwned removes the project only if it exists AND belongs to userID.
//
// THE ONE ATOMIC CHECK+WRITE:
// Both predicates sit in a single DELETE, so there is no window between
// "does the caller own it?" and "remove it" — unlike the read-then-write
// operations elsewhere. RowsAffected tells us whether anything matched:
// false means "no such project or not yours", deliberately
// indistinguishable, and repeating the call is harmlessly idempotent.
// Descendant conversations, messages, and snippets fall to the declared
// cascades.
func (r *ProjectRepo) DeleteOwned(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting project %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}
