package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

const (
	unreadCacheTTL = 5 * time.Minute
	previewRunes   = 80
)

// ChatService covers the per-request conversation thread. Unread counts
// are cached in Redis and invalidated on every write.
type ChatService struct {
	chat     repository.ChatRepository
	requests repository.RequestRepository
	cache    *redis.Client
	dispatcher events.Dispatcher
	logger   *zap.Logger
}

// NewChatService constructs the service. cache may be nil.
func NewChatService(chat repository.ChatRepository, requests repository.RequestRepository, cache *redis.Client, dispatcher events.Dispatcher, logger *zap.Logger) *ChatService {
	return &ChatService{chat: chat, requests: requests, cache: cache, dispatcher: dispatcher, logger: logger}
}

// MessageInput describes a new chat message.
type MessageInput struct {
	Body        string
	Attachments []string
}

// Post appends a message to a request's thread. Clients can only write on
// their own requests.
func (s *ChatService) Post(ctx context.Context, actor *domain.User, requestID string, input MessageInput) (*domain.ChatMessage, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkAccess(actor, req); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		RequestID:   requestID,
		Body:        strings.TrimSpace(input.Body),
		Attachments: input.Attachments,
	}
	if actor != nil {
		msg.AuthorID = &actor.ID
	}
	if msg.Attachments == nil {
		msg.Attachments = []string{}
	}
	if err := s.chat.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.invalidateUnread(ctx, requestID)

	preview := msg.Body
	if runes := []rune(preview); len(runes) > previewRunes {
		preview = string(runes[:previewRunes])
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventChatMessageAdded,
		ActorID:   msg.AuthorID,
		Timestamp: time.Now(),
		Payload: events.ChatMessageAddedPayload{
			MessageID: msg.ID,
			RequestID: requestID,
			Preview:   preview,
		},
	})
	return msg, nil
}

// List returns the thread of a request.
func (s *ChatService) List(ctx context.Context, actor *domain.User, requestID string) ([]domain.ChatMessage, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkAccess(actor, req); err != nil {
		return nil, err
	}

	messages, err := s.chat.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return messages, nil
}

// MarkRead flags the thread as read for the caller, skipping their own
// messages.
func (s *ChatService) MarkRead(ctx context.Context, actor *domain.User, requestID string) (int64, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if err := s.checkAccess(actor, req); err != nil {
		return 0, err
	}

	var exclude *string
	if actor != nil {
		exclude = &actor.ID
	}
	marked, err := s.chat.MarkRead(ctx, requestID, exclude)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if marked > 0 {
		s.invalidateUnread(ctx, requestID)
	}
	return marked, nil
}

// UnreadCount returns how many messages of the thread the caller has not
// read yet, serving from cache when possible.
func (s *ChatService) UnreadCount(ctx context.Context, actor *domain.User, requestID string) (int64, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if err := s.checkAccess(actor, req); err != nil {
		return 0, err
	}

	var exclude *string
	cacheKey := s.unreadKey(requestID, "")
	if actor != nil {
		exclude = &actor.ID
		cacheKey = s.unreadKey(requestID, actor.ID)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	total, err := s.chat.CountUnread(ctx, requestID, exclude)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, strconv.FormatInt(total, 10), unreadCacheTTL).Err(); err != nil {
			s.logger.Warn("unread cache write failed", zap.Error(err))
		}
	}
	return total, nil
}

func (s *ChatService) unreadKey(requestID, readerID string) string {
	return fmt.Sprintf("chat:unread:%s:%s", requestID, readerID)
}

// invalidateUnread drops every reader's cached count for the request.
func (s *ChatService) invalidateUnread(ctx context.Context, requestID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("chat:unread:%s:*", requestID)
	iter := s.cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("unread cache invalidation failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("unread cache scan failed", zap.Error(err))
	}
}

func (s *ChatService) checkAccess(actor *domain.User, req *domain.Request) error {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil
	}
	if req.CreatedByID != nil && *req.CreatedByID == actor.ID {
		return nil
	}
	return apperrors.NewNotFound("request", map[string]any{"request_id": req.ID})
}
