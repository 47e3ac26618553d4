package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// EnsureConversation creates the conversation row on first use and returns
// the stored record either way.
func (r *ConversationRepository) EnsureConversation(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversations (user_id, conversation_id, created_at, updated_at)
VALUES ($1,$2,$3,$3)
ON CONFLICT (user_id, conversation_id) DO NOTHING
`, userID, conversationID, now)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
SELECT user_id, conversation_id, created_at, updated_at
FROM conversations
WHERE user_id = $1 AND conversation_id = $2
`, userID, conversationID)

	var conv domain.Conversation
	if err := row.Scan(&conv.UserID, &conv.ConversationID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, message domain.ConversationMessage) error {
	createdAt := message.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversation_messages (id, user_id, conversation_id, role, content, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, message.ID, message.UserID, message.ConversationID, message.Role, message.Content, createdAt)
	if err != nil {
		return fmt.Errorf("insert conversation message: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE conversations SET updated_at = $3
WHERE user_id = $1 AND conversation_id = $2
`, message.UserID, message.ConversationID, createdAt)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// ListRecentMessages returns the newest messages in chronological order so
// the prompt builder can replay them as-is.
func (r *ConversationRepository) ListRecentMessages(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, conversation_id, role, content, created_at
FROM (
	SELECT id, user_id, conversation_id, role, content, created_at
	FROM conversation_messages
	WHERE user_id = $1 AND conversation_id = $2
	ORDER BY created_at DESC
	LIMIT $3
) recent
ORDER BY created_at
`, userID, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversation messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ConversationMessage, 0)
	for rows.Next() {
		var msg domain.ConversationMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation message: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation messages: %w", err)
	}
	return out, nil
}
