package model

import "time"

// User represents a registered account.
//
// WHY ID int64?
// Every entity uses a store-assigned integer surrogate key (SQLite's
// INTEGER PRIMARY KEY, which is monotonically allocated). We never use the
// auth provider id as a primary key — the provider id is just an attribute,
// and the same (provider, provider_id) pair may legitimately repeat across
// DIFFERENT providers. Email is the one globally unique natural key.
//
// WHY AvatarURL *string (not string)?
// The avatar is genuinely optional and the column is nullable. A pointer
// lets us round-trip NULL faithfully: nil marshals to JSON null and scans
// from a NULL column. Compare Email, which is NOT NULL — plain string.
//
// PasswordHash is only populated for the "email" auth provider and is never
// serialized (json:"-"). OAuth accounts have no password at all.
type User struct {
	ID             int64          `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	AvatarURL      *string        `json:"avatar_url"`
	AuthProvider   AuthProvider   `json:"auth_provider"`
	AuthProviderID string         `json:"auth_provider_id"`
	PasswordHash   *string        `json:"-"`
	PreferredLang  CodingLanguage `json:"preferred_coding_language"`
	PreferredModel AIModel        `json:"preferred_ai_model"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// UserUpdate is the partial-update input for a user. Only fields with
// Set=true are applied; see Field for the absent/null/value distinction.
// Email, auth provider, and provider id are immutable after creation.
type UserUpdate struct {
	Name           Field[string]         `json:"name"`
	AvatarURL      Field[*string]        `json:"avatar_url"`
	PreferredLang  Field[CodingLanguage] `json:"preferred_coding_language"`
	PreferredModel Field[AIModel]        `json:"preferred_ai_model"`
}
