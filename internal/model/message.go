package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message is one turn in a conversation, authored by either the user or the
// assistant.
//
// MESSAGES ARE IMMUTABLE:
// There is deliberately no UpdatedAt field and no update operation — a chat
// transcript is append-only. The only way a message disappears is when its
// conversation (or an ancestor) is deleted, via the store's cascade.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	Metadata       Metadata    `json:"metadata"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Metadata is a free-form key/value mapping attached to a message (token
// counts, model temperature, client hints — whatever the caller wants). No
// schema is enforced on its contents; the store treats it as an opaque JSON
// blob in a nullable TEXT column.
//
// A nil Metadata means "no metadata": it marshals to JSON null and is stored
// as SQL NULL.
type Metadata map[string]any

// Value implements driver.Valuer so Metadata can be passed straight to
// ExecContext. database/sql calls this to turn the Go value into something
// the driver understands — here, JSON text or NULL.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("model: marshaling message metadata: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner, the inverse of Value — it reads the column
// back out of a row. NULL scans to nil; anything else must be JSON text.
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("model: cannot scan %T into Metadata", src)
	}

	return json.Unmarshal(data, m)
}
