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

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo implements repository.MessageRepository over the shared DB.
type MessageRepo struct {
	db *DB
}

// NewMessageRepo creates a MessageRepo backed by db.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create appends a message to a conversation. Messages never get an
// updated_at — there is no update path at all.
//
// The Metadata value goes straight into ExecContext: model.Metadata
// implements driver.Valuer, so nil becomes SQL NULL and anything else
// becomes JSON text without the repository touching encoding/json.
func (r *MessageRepo) Create(ctx context.Context, msg *model.Message) error {
	msg.CreatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID,
		msg.Role,
		msg.Content,
		msg.Metadata,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating message: %w", err)
	}

	msg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new message id: %w", err)
	}

	return nil
}

// GetByID retrieves a message by its id. Used by the snippet service to
// verify that a supplied message_id belongs to the right conversation.
func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, conversation_id, role, content, metadata, created_at
		 FROM messages WHERE id = ?`,
		id,
	).Scan(
		&m.ID,
		&m.ConversationID,
		&m.Role,
		&m.Content,
		&m.Metadata,
		&m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("message", id)
		}
		return nil, fmt.Errorf("sqlite: getting message %d: %w", id, err)
	}

	return &m, nil
}

// ListByConversation returns the transcript in chronological order —
// the one list in the system that sorts ascending, because a transcript
// reads top to bottom.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID int64) ([]model.Message, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, metadata, created_at
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages for conversation %d: %w", conversationID, err)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Metadata,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating messages: %w", err)
	}

	return msgs, nil
}
