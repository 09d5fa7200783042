package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
)

func newTestMessageService(t *testing.T) (*MessageService, *model.Conversation) {
	t.Helper()
	convs := newMockConversationRepo()
	msgs := newMockMessageRepo()

	conv := &model.Conversation{ProjectID: 1, UserID: 1, Title: "t", Model: model.AIModelClaudeSonnet}
	if err := convs.Create(context.Background(), conv); err != nil {
		t.Fatalf("seeding conversation: %v", err)
	}

	return NewMessageService(msgs, convs, testLogger()), conv
}

func TestMessageCreate_Valid(t *testing.T) {
	svc, conv := newTestMessageService(t)

	msg, err := svc.Create(context.Background(), conv.ID, model.RoleUser, "write me a regex",
		model.Metadata{"client": "web"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if msg.ID == 0 {
		t.Error("Create() returned message without id")
	}
	if msg.Metadata["client"] != "web" {
		t.Errorf("Metadata = %v, want client=web", msg.Metadata)
	}
}

func TestMessageCreate_Validation(t *testing.T) {
	svc, conv := newTestMessageService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, conv.ID, "system", "hi", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() bad role error = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(ctx, conv.ID, model.RoleUser, "", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() empty content error = %v, want ErrValidation", err)
	}

	huge := strings.Repeat("x", MaxMessageContentLength+1)
	if _, err := svc.Create(ctx, conv.ID, model.RoleUser, huge, nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() oversized content error = %v, want ErrValidation", err)
	}
}

func TestMessageCreate_UnknownConversation(t *testing.T) {
	svc, _ := newTestMessageService(t)

	_, err := svc.Create(context.Background(), 999, model.RoleUser, "hello?", nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestMessageListForConversation(t *testing.T) {
	svc, conv := newTestMessageService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, conv.ID, model.RoleUser, "q", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, conv.ID, model.RoleAssistant, "a", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	msgs, err := svc.ListForConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListForConversation() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("ListForConversation() returned %d, want 2", len(msgs))
	}

	// Unknown conversation is an empty transcript.
	msgs, err = svc.ListForConversation(ctx, 999)
	if err != nil || len(msgs) != 0 {
		t.Errorf("ListForConversation() unknown = (%d items, %v), want (0, nil)", len(msgs), err)
	}
}
