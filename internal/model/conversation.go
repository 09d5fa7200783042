package model

import "time"

// Conversation is a chat thread with one AI model, scoped to a project.
//
// WHY BOTH ProjectID AND UserID?
// UserID is a denormalized copy of the parent project's owner, taken at
// creation time. It exists so that ownership checks on descendants (e.g.
// "may this user delete that snippet?") can join snippet → conversation →
// user_id without walking up to the projects table. The service layer
// enforces conversation.user_id == project.user_id when creating — the
// store does not, it only declares the two cascading foreign keys.
type Conversation struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Model     AIModel   `json:"ai_model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationUpdate is the partial-update input for a conversation.
// Project and owner are immutable — a conversation never moves.
type ConversationUpdate struct {
	Title Field[string]  `json:"title"`
	Model Field[AIModel] `json:"ai_model"`
}
