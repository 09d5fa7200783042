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

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo implements repository.ConversationRepository over the
// shared DB.
type ConversationRepo struct {
	db *DB
}

// NewConversationRepo creates a ConversationRepo backed by db.
func NewConversationRepo(db *DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a new conversation. The service has already verified that
// the project exists and that conv.UserID matches the project's owner —
// the denormalized user_id invariant is enforced there, not here.
func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO conversations (project_id, user_id, title, ai_model, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conv.ProjectID,
		conv.UserID,
		conv.Title,
		conv.Model,
		conv.CreatedAt,
		conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating conversation: %w", err)
	}

	conv.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new conversation id: %w", err)
	}

	return nil
}

// GetByID retrieves a conversation by its id.
func (r *ConversationRepo) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	var c model.Conversation
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, project_id, user_id, title, ai_model, created_at, updated_at
		 FROM conversations WHERE id = ?`,
		id,
	).Scan(
		&c.ID,
		&c.ProjectID,
		&c.UserID,
		&c.Title,
		&c.Model,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("conversation", id)
		}
		return nil, fmt.Errorf("sqlite: getting conversation %d: %w", id, err)
	}

	return &c, nil
}

// ListByProject returns the project's conversations, most recently touched
// first. Unknown project ids yield an empty slice.
func (r *ConversationRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Conversation, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, project_id, user_id, title, ai_model, created_at, updated_at
		 FROM conversations
		 WHERE project_id = ?
		 ORDER BY updated_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing conversations for project %d: %w", projectID, err)
	}
	defer rows.Close()

	convs := []model.Conversation{}
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.UserID, &c.Title, &c.Model,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning conversation row: %w", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating conversations: %w", err)
	}

	return convs, nil
}

// Update rewrites the mutable columns (title, ai_model) and refreshes
// updated_at, which is what floats the conversation to the top of
// ListByProject.
func (r *ConversationRepo) Update(ctx context.Context, conv *model.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE conversations
		 SET title = ?, ai_model = ?, updated_at = ?
		 WHERE id = ?`,
		conv.Title,
		conv.Model,
		conv.UpdatedAt,
		conv.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating conversation %d: %w", conv.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("conversation", conv.ID)
	}

	return nil
}
