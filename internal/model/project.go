package model

import "time"

// Project groups a user's conversations around one codebase or goal.
//
// UserID is the owning user. The projects table declares
// FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE, so deleting
// a user removes their projects (and, transitively, everything below).
type Project struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Language    CodingLanguage `json:"coding_language"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProjectUpdate is the partial-update input for a project.
type ProjectUpdate struct {
	Name        Field[string]         `json:"name"`
	Description Field[*string]        `json:"description"`
	Language    Field[CodingLanguage] `json:"coding_language"`
}
