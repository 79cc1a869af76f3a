package repository

import (
	"context"
	"fmt"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ChatRepository persists the per-request message board.
type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, requestID string, excludeAuthorID *string) (int64, error)
	CountUnread(ctx context.Context, requestID string, excludeAuthorID *string) (int64, error)
}

type chatRepository struct {
	db DB
}

// NewChatRepository instantiates the repository.
func NewChatRepository(db DB) ChatRepository {
	return &chatRepository{db: db}
}

const chatColumns = `id, request_id, author_id, body, read, attachments, created_at`

func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (request_id, author_id, body, attachments)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		msg.RequestID, msg.AuthorID, msg.Body, msg.Attachments,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *chatRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	query := fmt.Sprintf(`SELECT %s FROM chat_messages WHERE request_id=$1 ORDER BY created_at`, chatColumns)
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID, &msg.RequestID, &msg.AuthorID, &msg.Body, &msg.Read,
			&msg.Attachments, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

// MarkRead flags every message of the request not authored by the reader.
func (r *chatRepository) MarkRead(ctx context.Context, requestID string, excludeAuthorID *string) (int64, error) {
	query := `UPDATE chat_messages SET read=TRUE WHERE request_id=$1 AND read=FALSE`
	args := []any{requestID}
	if excludeAuthorID != nil {
		args = append(args, *excludeAuthorID)
		query += ` AND (author_id IS NULL OR author_id <> $2)`
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *chatRepository) CountUnread(ctx context.Context, requestID string, excludeAuthorID *string) (int64, error) {
	query := `SELECT COUNT(*) FROM chat_messages WHERE request_id=$1 AND read=FALSE`
	args := []any{requestID}
	if excludeAuthorID != nil {
		args = append(args, *excludeAuthorID)
		query += ` AND (author_id IS NULL OR author_id <> $2)`
	}
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
