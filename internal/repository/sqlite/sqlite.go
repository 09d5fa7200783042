// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite?
// It's a pure-Go translation of SQLite — no CGo, no C compiler, trivial
// cross-compilation, and ":memory:" databases make the repository tests
// fast and hermetic.
//
// CASCADES LIVE IN THE SCHEMA, NOT IN CODE:
// All cascading-delete behavior is declared on the foreign keys below and
// enforced by SQLite itself (PRAGMA foreign_keys=ON is mandatory — SQLite
// ships with it OFF for backwards compatibility):
//
//	users        ─┬─ projects        ON DELETE CASCADE
//	projects     ─┬─ conversations   ON DELETE CASCADE
//	users        ─┴─ conversations   ON DELETE CASCADE (denormalized owner)
//	conversations ┬─ messages        ON DELETE CASCADE
//	conversations ┴─ code_snippets   ON DELETE CASCADE
//	messages     ─── code_snippets   ON DELETE SET NULL (snippet survives)
//
// No repository method ever deletes a descendant row explicitly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	// The driver registers itself with database/sql under the name "sqlite"
	// in its init(). We import it by name (not blank) because we also need
	// its Error type to detect constraint violations.
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool. The per-entity repos (UserRepo,
// ProjectRepo, ...) all share one DB; DB itself owns the schema and the
// connection lifecycle.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// PRAGMAs apply per connection and ":memory:" databases exist per
	// connection, so the pool must stay at exactly one. SQLite serializes
	// writers anyway; a bigger pool would only add lock contention.
	conn.SetMaxOpenConns(1)

	// sql.Open only prepares the pool; Ping forces a real connection so a
	// bad path fails here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed concurrently with a write — important for a
	// web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Without this, every ON DELETE CASCADE / SET NULL above is a no-op.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the five entity tables. CREATE TABLE IF NOT EXISTS keeps
// this idempotent; the enum value sets are mirrored here as CHECK
// constraints so a bad value is rejected even if it slips past validation.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                        INTEGER PRIMARY KEY AUTOINCREMENT,
			email                     TEXT    NOT NULL UNIQUE,
			name                      TEXT    NOT NULL,
			avatar_url                TEXT,
			auth_provider             TEXT    NOT NULL CHECK (auth_provider IN ('google','facebook','email')),
			auth_provider_id          TEXT    NOT NULL,
			password_hash             TEXT,
			preferred_coding_language TEXT    NOT NULL CHECK (preferred_coding_language IN (
				'python','javascript','typescript','go','rust','java','c',
				'cpp','csharp','ruby','php','swift','kotlin')),
			preferred_ai_model        TEXT    NOT NULL CHECK (preferred_ai_model IN
				('claude-sonnet','gemini-2.5-flash','gpt-4')),
			created_at                DATETIME NOT NULL,
			updated_at                DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_users_auth
			ON users(auth_provider, auth_provider_id);

		CREATE TABLE IF NOT EXISTS projects (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name            TEXT    NOT NULL,
			description     TEXT,
			coding_language TEXT    NOT NULL CHECK (coding_language IN (
				'python','javascript','typescript','go','rust','java','c',
				'cpp','csharp','ruby','php','swift','kotlin')),
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_projects_user_updated
			ON projects(user_id, updated_at);

		CREATE TABLE IF NOT EXISTS conversations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT    NOT NULL,
			ai_model   TEXT    NOT NULL CHECK (ai_model IN
				('claude-sonnet','gemini-2.5-flash','gpt-4')),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_conversations_project_updated
			ON conversations(project_id, updated_at);

		CREATE TABLE IF NOT EXISTS messages (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			role            TEXT    NOT NULL CHECK (role IN ('user','assistant')),
			content         TEXT    NOT NULL,
			metadata        TEXT,
			created_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
			ON messages(conversation_id, created_at);

		CREATE TABLE IF NOT EXISTS code_snippets (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			message_id      INTEGER REFERENCES messages(id) ON DELETE SET NULL,
			title           TEXT    NOT NULL,
			code            TEXT    NOT NULL,
			language        TEXT    NOT NULL CHECK (language IN (
				'python','javascript','typescript','go','rust','java','c',
				'cpp','csharp','ruby','php','swift','kotlin')),
			description     TEXT,
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_conversation_created
			ON code_snippets(conversation_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure (e.g. a duplicate email). The driver returns a typed
// *sqlite.Error whose extended result code distinguishes constraint kinds,
// so we don't have to string-match error text.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
