package model

import "time"

// CodeSnippet is a piece of code saved out of a conversation — typically
// something the assistant produced that the user wants to keep.
//
// WHY MessageID *int64?
// A snippet always belongs to a conversation, but only OPTIONALLY to a
// specific message within it. The column is nullable and declared with
// ON DELETE SET NULL: deleting the source message orphans the snippet's
// message link but keeps the snippet itself. When a message id IS supplied
// at creation, the service verifies it belongs to the same conversation —
// the store does not enforce that pairing.
//
// Snippets have no direct owner column. Ownership flows through the
// conversation's denormalized user_id, which is why the owner check on
// delete is a join rather than a column comparison.
type CodeSnippet struct {
	ID             int64          `json:"id"`
	ConversationID int64          `json:"conversation_id"`
	MessageID      *int64         `json:"message_id"`
	Title          string         `json:"title"`
	Code           string         `json:"code"`
	Language       CodingLanguage `json:"language"`
	Description    *string        `json:"description"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CodeSnippetUpdate is the partial-update input for a code snippet.
// The conversation and message links are immutable.
type CodeSnippetUpdate struct {
	Title       Field[string]         `json:"title"`
	Code        Field[string]         `json:"code"`
	Language    Field[CodingLanguage] `json:"language"`
	Description Field[*string]        `json:"description"`
}
