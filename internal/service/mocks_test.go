package service

// Hand-written in-memory mocks for the repository interfaces.
//
// WHY MOCK INSTEAD OF IN-MEMORY SQLITE?
// These tests exercise the service layer's rules (validation, ownership
// chains, partial-update semantics) in isolation — the repository contract
// itself is covered by the sqlite package's own tests. In-memory maps keep
// each test at microseconds and make error injection trivial.
//
// Each mock stores copies, not the caller's pointers, so a test can't
// accidentally mutate "stored" state through a stale reference.

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/auth"
	"github.com/sakif/codechat/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ---------------------------------------------------------------------------
// users

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	m.nextID++
	user.ID = m.nextID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider model.AuthProvider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.AuthProvider == provider && u.AuthProviderID == providerID {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundf("user not found for provider %s", provider)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	user.UpdatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

// ---------------------------------------------------------------------------
// projects

type mockProjectRepo struct {
	projects map[int64]*model.Project
	nextID   int64
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[int64]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	m.nextID++
	project.ID = m.nextID
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	stored := *project
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id int64) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperror.NotFound("project", id)
	}
	result := *p
	return &result, nil
}

func (m *mockProjectRepo) ListByUser(_ context.Context, userID int64) ([]model.Project, error) {
	result := []model.Project{}
	for _, p := range m.projects {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	if _, ok := m.projects[project.ID]; !ok {
		return apperror.NotFound("project", project.ID)
	}
	project.UpdatedAt = time.Now().UTC()
	stored := *project
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockProjectRepo) DeleteOwned(_ context.Context, id, userID int64) (bool, error) {
	p, ok := m.projects[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(m.projects, id)
	return true, nil
}

// ---------------------------------------------------------------------------
// conversations

type mockConversationRepo struct {
	convs  map[int64]*model.Conversation
	nextID int64
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{convs: make(map[int64]*model.Conversation)}
}

func (m *mockConversationRepo) Create(_ context.Context, conv *model.Conversation) error {
	m.nextID++
	conv.ID = m.nextID
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	stored := *conv
	m.convs[conv.ID] = &stored
	return nil
}

func (m *mockConversationRepo) GetByID(_ context.Context, id int64) (*model.Conversation, error) {
	c, ok := m.convs[id]
	if !ok {
		return nil, apperror.NotFound("conversation", id)
	}
	result := *c
	return &result, nil
}

func (m *mockConversationRepo) ListByProject(_ context.Context, projectID int64) ([]model.Conversation, error) {
	result := []model.Conversation{}
	for _, c := range m.convs {
		if c.ProjectID == projectID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockConversationRepo) Update(_ context.Context, conv *model.Conversation) error {
	if _, ok := m.convs[conv.ID]; !ok {
		return apperror.NotFound("conversation", conv.ID)
	}
	conv.UpdatedAt = time.Now().UTC()
	stored := *conv
	m.convs[conv.ID] = &stored
	return nil
}

// ---------------------------------------------------------------------------
// messages

type mockMessageRepo struct {
	msgs   map[int64]*model.Message
	nextID int64
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{msgs: make(map[int64]*model.Message)}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) error {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now().UTC()
	stored := *msg
	m.msgs[msg.ID] = &stored
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id int64) (*model.Message, error) {
	msg, ok := m.msgs[id]
	if !ok {
		return nil, apperror.NotFound("message", id)
	}
	result := *msg
	return &result, nil
}

func (m *mockMessageRepo) ListByConversation(_ context.Context, conversationID int64) ([]model.Message, error) {
	result := []model.Message{}
	for _, msg := range m.msgs {
		if msg.ConversationID == conversationID {
			result = append(result, *msg)
		}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// snippets

type mockSnippetRepo struct {
	snippets map[int64]*model.CodeSnippet
	convs    *mockConversationRepo // for DeleteOwned's ownership join
	nextID   int64
}

func newMockSnippetRepo(convs *mockConversationRepo) *mockSnippetRepo {
	return &mockSnippetRepo{snippets: make(map[int64]*model.CodeSnippet), convs: convs}
}

func (m *mockSnippetRepo) Create(_ context.Context, snippet *model.CodeSnippet) error {
	m.nextID++
	snippet.ID = m.nextID
	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) GetByID(_ context.Context, id int64) (*model.CodeSnippet, error) {
	s, ok := m.snippets[id]
	if !ok {
		return nil, apperror.NotFound("code snippet", id)
	}
	result := *s
	return &result, nil
}

func (m *mockSnippetRepo) ListByConversation(_ context.Context, conversationID int64) ([]model.CodeSnippet, error) {
	result := []model.CodeSnippet{}
	for _, s := range m.snippets {
		if s.ConversationID == conversationID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSnippetRepo) Update(_ context.Context, snippet *model.CodeSnippet) error {
	if _, ok := m.snippets[snippet.ID]; !ok {
		return apperror.NotFound("code snippet", snippet.ID)
	}
	snippet.UpdatedAt = time.Now().UTC()
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) DeleteOwned(_ context.Context, id, userID int64) (bool, error) {
	s, ok := m.snippets[id]
	if !ok {
		return false, nil
	}
	conv, ok := m.convs.convs[s.ConversationID]
	if !ok || conv.UserID != userID {
		return false, nil
	}
	delete(m.snippets, id)
	return true, nil
}

// ---------------------------------------------------------------------------
// shared fixtures

// seedTestUser registers a user through the mock directly.
func seedTestUser(t *testing.T, users *mockUserRepo, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:          email,
		Name:           "Test User",
		AuthProvider:   model.AuthProviderGoogle,
		AuthProviderID: "g-" + email,
		PreferredLang:  model.LangPython,
		PreferredModel: model.AIModelClaudeSonnet,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

// testPasswords uses the minimum bcrypt cost so each hash takes
// microseconds instead of ~250ms.
func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceForTest(4)
}
