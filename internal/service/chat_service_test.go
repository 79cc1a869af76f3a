package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
)

type fakeChatRepo struct {
	messages []domain.ChatMessage
}

func (f *fakeChatRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	msg.ID = "msg-1"
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) ListByRequest(_ context.Context, _ string) ([]domain.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeChatRepo) MarkRead(_ context.Context, _ string, _ *string) (int64, error) {
	return 0, nil
}

func (f *fakeChatRepo) CountUnread(_ context.Context, _ string, _ *string) (int64, error) {
	return 0, nil
}

type fakeRequestRepo struct {
	repository.RequestRepository
	getByID func(ctx context.Context, id string) (*domain.Request, error)
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	return f.getByID(ctx, id)
}

func chatFixture(t *testing.T) (*service.ChatService, *events.Event) {
	t.Helper()
	requests := &fakeRequestRepo{
		getByID: func(_ context.Context, id string) (*domain.Request, error) {
			return &domain.Request{ID: id, ClientID: "cl-1"}, nil
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	captured := &events.Event{}
	dispatcher.Subscribe(events.EventChatMessageAdded, func(_ context.Context, e events.Event) error {
		*captured = e
		return nil
	})
	svc := service.NewChatService(&fakeChatRepo{}, requests, nil, dispatcher, zap.NewNop())
	return svc, captured
}

func TestPostTruncatesPreviewOnRuneBoundaries(t *testing.T) {
	svc, captured := chatFixture(t)
	actor := &domain.User{ID: "u-1", Role: domain.RoleAdmin}

	// byte 80 of this body falls inside the accented rune
	body := strings.Repeat("a", 79) + "è" + strings.Repeat("b", 20)
	msg, err := svc.Post(context.Background(), actor, "req-1", service.MessageInput{Body: body})
	require.NoError(t, err)
	assert.Equal(t, body, msg.Body)

	payload, ok := captured.Payload.(events.ChatMessageAddedPayload)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(payload.Preview))
	assert.Equal(t, 80, utf8.RuneCountInString(payload.Preview))
	assert.Equal(t, strings.Repeat("a", 79)+"è", payload.Preview)
}

func TestPostShortBodyPreviewUntouched(t *testing.T) {
	svc, captured := chatFixture(t)
	actor := &domain.User{ID: "u-1", Role: domain.RoleAdmin}

	msg, err := svc.Post(context.Background(), actor, "req-1", service.MessageInput{Body: "perché non funziona?"})
	require.NoError(t, err)

	payload, ok := captured.Payload.(events.ChatMessageAddedPayload)
	require.True(t, ok)
	assert.Equal(t, msg.Body, payload.Preview)
}
