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

var _ repository.SnippetRepository = (*SnippetRepo)(nil)

// SnippetRepo implements repository.SnippetRepository over the shared DB.
type SnippetRepo struct {
	db *DB
}

// NewSnippetRepo creates a SnippetRepo backed by db.
func NewSnippetRepo(db *DB) *SnippetRepo {
	return &SnippetRepo{db: db}
}

// Create inserts a new code snippet. The service has already verified the
// conversation exists and, when MessageID is set, that the message belongs
// to the same conversation — the schema only guarantees the two rows exist.
func (r *SnippetRepo) Create(ctx context.Context, snippet *model.CodeSnippet) error {
	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO code_snippets (conversation_id, message_id, title, code,
		                            language, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ConversationID,
		snippet.MessageID,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating code snippet: %w", err)
	}

	snippet.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new snippet id: %w", err)
	}

	return nil
}

// GetByID retrieves a code snippet by its id.
func (r *SnippetRepo) GetByID(ctx context.Context, id int64) (*model.CodeSnippet, error) {
	var s model.CodeSnippet
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, conversation_id, message_id, title, code, language,
		        description, created_at, updated_at
		 FROM code_snippets WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.ConversationID,
		&s.MessageID,
		&s.Title,
		&s.Code,
		&s.Language,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("code snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting code snippet %d: %w", id, err)
	}

	return &s, nil
}

// ListByConversation returns the conversation's snippets, newest first.
func (r *SnippetRepo) ListByConversation(ctx context.Context, conversationID int64) ([]model.CodeSnippet, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, conversation_id, message_id, title, code, language,
		        description, created_at, updated_at
		 FROM code_snippets
		 WHERE conversation_id = ?
		 ORDER BY created_at DESC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets for conversation %d: %w", conversationID, err)
	}
	defer rows.Close()

	snippets := []model.CodeSnippet{}
	for rows.Next() {
		var s model.CodeSnippet
		if err := rows.Scan(
			&s.ID, &s.ConversationID, &s.MessageID, &s.Title, &s.Code,
			&s.Language, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update rewrites the mutable columns and refreshes updated_at. The
// conversation and message links are immutable, so they never appear in
// the SET clause.
func (r *SnippetRepo) Update(ctx context.Context, snippet *model.CodeSnippet) error {
	snippet.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE code_snippets
		 SET title = ?, code = ?, language = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating code snippet %d: %w", snippet.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("code snippet", snippet.ID)
	}

	return nil
}

// DeleteOwned removes the snippet only if its conversation belongs to
// userID. Snippets carry no owner column, so the ownership predicate is a
// subquery through conversations — still a single conditional DELETE, same
// atomicity as ProjectRepo.DeleteOwned, one extra hop.
func (r *SnippetRepo) DeleteOwned(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM code_snippets
		 WHERE id = ?
		   AND conversation_id IN (SELECT id FROM conversations WHERE user_id = ?)`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting code snippet %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}
